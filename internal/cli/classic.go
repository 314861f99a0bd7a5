package cli

import (
	"fmt"

	"github.com/jwtly10/protex"
	"github.com/jwtly10/protex/internal/transformer"
)

// ClassicArgs is the result of parsing a classic ProTeX command line
type ClassicArgs struct {
	Help    bool
	Options protex.Options
	Inputs  []transformer.Input
}

// ParseClassic parses the classic ProTeX switch grammar.
//
// Switches may be combined (-bnS) and appear anywhere. -b, -g and -M apply to the
// whole run, every other switch applies to the files listed after it until it is
// overridden. A plus sign turns a switch off. A lone "-" reads standard input, as
// does a command line without files.
func ParseClassic(args []string, base protex.Options) (ClassicArgs, error) {
	res := ClassicArgs{Options: base}
	cur := base.File

	for _, arg := range args {
		if arg == protex.StdinName {
			res.Inputs = append(res.Inputs, transformer.Input{Path: protex.StdinName, Options: cur})
			continue
		}

		if len(arg) < 2 || (arg[0] != '-' && arg[0] != '+') {
			res.Inputs = append(res.Inputs, transformer.Input{Path: arg, Options: cur})
			continue
		}

		on := arg[0] == '-'
		for _, ch := range arg[1:] {
			if err := applySwitch(&res, &cur, ch, on); err != nil {
				return ClassicArgs{}, fmt.Errorf("%s: %w", arg, err)
			}
		}
	}

	if len(res.Inputs) == 0 {
		res.Inputs = append(res.Inputs, transformer.Input{Path: protex.StdinName, Options: cur})
	}
	res.Options.File = cur
	return res, nil
}

func applySwitch(res *ClassicArgs, cur *protex.FileOptions, ch rune, on bool) error {
	switch ch {
	case 'h':
		res.Help = true
	case 'b':
		res.Options.Bare = on
	case 'g':
		res.Options.Flavor = flavor(on, protex.FlavorGEOS)
	case 'M':
		res.Options.Flavor = flavor(on, protex.FlavorMAPL)
	case 'i':
		cur.Internal = on
	case 'n':
		cur.NewPage = on
	case 'l':
		cur.Listing = on
	case 's':
		cur.ShutUp = on
	case 'x':
		cur.NoLaTeX = on
	case 'f':
		cur.NoSourceInfo = on
	default:
		code := string(ch)
		if _, err := protex.LookupProfile(code); err != nil {
			return fmt.Errorf("unknown switch %q", code)
		}
		if !on {
			return fmt.Errorf("language switch %q cannot be turned off", code)
		}
		cur.Language = code
	}
	return nil
}

func flavor(on bool, f protex.Flavor) protex.Flavor {
	if on {
		return f
	}
	return protex.FlavorDefault
}

// ClassicUsage is the help text of the classic command line
const ClassicUsage = `Usage: protex classic [-hbgMi] [+-nlsxf] [-ACFSGP] file(s)

  -h   : help mode: list command line options
  -b   : bare mode, meaning no preamble, etc.
  -g   : GEOS style, no file headers or prologue section
  -M   : MAPL style, same as -g
  -i   : internal mode: omit prologues marked BOPI
  +/-n : new page for each subsection (wastes paper)
  +/-l : listing mode, accepted for compatibility
  +/-s : shut-up mode, i.e., ignore any code from BOC to EOC
  +/-x : no LaTeX mode, i.e., put !DESCRIPTION: in verbatim mode
  +/-f : no source file info
  -A   : Ada code
  -C   : C++ code
  -F   : F90 code (default)
  -S   : shell script
  -G   : GrADS script
  -P   : Python code

The options can appear in any order. The options -h, -b, -g and -M affect the
input from all files listed on the command line. Each of the remaining options
affects only the input from the files listed after that option and prior to any
overriding option. The plus sign turns off the option. For example:

    protex classic -bnS File1 -F File2.f +n File3.f

applies -n to File1 and File2.f but not to File3.f, and reads File1 as a shell
script while File2.f and File3.f are read as Fortran.
`
