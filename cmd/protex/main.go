package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/jwtly10/protex"
	"github.com/jwtly10/protex/internal/cli"
	"github.com/jwtly10/protex/internal/config"
	"github.com/jwtly10/protex/internal/transformer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "protex [flags] [file|dir ...]",
	Short: "Generate documentation from source code prologues",
	Long: `Converts the prologue comments of source files into a LaTeX document.

Files are processed in the order given and concatenated into one document.
Directories are searched for source files of a supported language, honouring
.gitignore when the directory is a git repository. Without files, or with "-",
standard input is read.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runConvert,
}

var classicCmd = &cobra.Command{
	Use:   "classic [-hbgMi] [+-nlsxf] [-ACFSGP] file(s)",
	Short: "Run with the classic ProTeX switches",
	Long: `Accepts the classic ProTeX command line, where language and file switches
apply to the files listed after them.

` + cli.ClassicUsage,
	DisableFlagParsing: true,
	RunE:               runClassic,
}

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [file|dir ...]",
	Short: "Report prologues lacking required fields",
	Long: `Checks that every prologue carries a name, a description, an interface and a
revision history. Exits with an error when any prologue is incomplete.`,
	RunE: runLint,
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported source languages",
	Args:  cobra.NoArgs,
	RunE:  runLanguages,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(classicCmd, lintCmd, languagesCmd)

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("language", "L", protex.DefaultLanguage, "Language code of the inputs (A, C, F, S, G, P) or auto")
	rootCmd.PersistentFlags().BoolP("internal", "i", false, "Omit prologues marked BOPI")
	rootCmd.PersistentFlags().StringSlice("keys", nil, "Keyword field markers, in match order")

	rootCmd.Flags().BoolP("bare", "b", false, "Bare mode: no preamble, document begin or end")
	rootCmd.Flags().String("style", "", "LaTeX document class and package to use")
	rootCmd.Flags().String("flavor", "", "Document flavor: geos or mapl")
	rootCmd.Flags().BoolP("new-page", "n", false, "Start a new page for each documented entity")
	rootCmd.Flags().BoolP("shut-up", "s", false, "Ignore code between BOC and EOC")
	rootCmd.Flags().BoolP("no-latex", "x", false, "Put the description in verbatim mode")
	rootCmd.Flags().BoolP("no-source-info", "f", false, "Leave the source file out of headings")
	rootCmd.Flags().String("format", "latex", "Output format: latex, markdown or html")
	rootCmd.Flags().StringP("output", "o", "", "Output file or directory, standard output when empty")
	rootCmd.Flags().Bool("no-backup", false, "Do not back up an existing output file")

	lintCmd.Flags().String("report", "text", "Report format: text, yaml or json")

	viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	viper.BindPFlag("internal", rootCmd.PersistentFlags().Lookup("internal"))
	viper.BindPFlag("keys", rootCmd.PersistentFlags().Lookup("keys"))
	viper.BindPFlag("bare", rootCmd.Flags().Lookup("bare"))
	viper.BindPFlag("style", rootCmd.Flags().Lookup("style"))
	viper.BindPFlag("flavor", rootCmd.Flags().Lookup("flavor"))
	viper.BindPFlag("new_page", rootCmd.Flags().Lookup("new-page"))
	viper.BindPFlag("shut_up", rootCmd.Flags().Lookup("shut-up"))
	viper.BindPFlag("no_latex", rootCmd.Flags().Lookup("no-latex"))
	viper.BindPFlag("no_source_info", rootCmd.Flags().Lookup("no-source-info"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	slog.Debug("loaded config", "config", config.C)
	return nil
}

func transformOptions(cmd *cobra.Command, run protex.Options) transformer.TransformOptions {
	noBackup := !config.GetBackup()
	if nb, _ := cmd.Flags().GetBool("no-backup"); nb {
		noBackup = true
	}
	return transformer.TransformOptions{
		Format:   config.GetFormat(),
		NoBackup: noBackup,
		Run:      run,
	}
}

func inputs(args []string, opts protex.FileOptions) []transformer.Input {
	if len(args) == 0 {
		args = []string{protex.StdinName}
	}
	in := make([]transformer.Input, 0, len(args))
	for _, a := range args {
		in = append(in, transformer.Input{Path: a, Options: opts})
	}
	return in
}

func runConvert(cmd *cobra.Command, args []string) error {
	run := config.RunOptions()
	opts := transformOptions(cmd, run)
	slog.Debug("converting", "options", opts.Pretty())

	p, err := cli.NewProcessor(opts)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	res, err := p.Process(os.Stdout, output, inputs(args, run.File))
	if err != nil {
		return err
	}

	if res.OutPath != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d prologues from %d files to %s\n", res.Prologues, res.Files, res.OutPath)
	}
	return nil
}

func runClassic(cmd *cobra.Command, args []string) error {
	parsed, err := cli.ParseClassic(args, config.RunOptions())
	if err != nil {
		fmt.Fprint(os.Stderr, cli.ClassicUsage)
		return err
	}
	if parsed.Help {
		fmt.Print(cli.ClassicUsage)
		return nil
	}

	opts := transformer.TransformOptions{
		Format:   config.GetFormat(),
		NoBackup: true,
		Run:      parsed.Options,
	}
	p, err := cli.NewProcessor(opts)
	if err != nil {
		return err
	}

	_, err = p.Process(os.Stdout, "", parsed.Inputs)
	return err
}

func runLint(cmd *cobra.Command, args []string) error {
	run := config.RunOptions()
	p, err := cli.NewProcessor(transformer.TransformOptions{NoBackup: true, Run: run})
	if err != nil {
		return err
	}

	findings, err := p.Lint(inputs(args, run.File))
	if err != nil {
		return err
	}

	report, _ := cmd.Flags().GetString("report")
	switch report {
	case "text":
		for _, f := range findings {
			fmt.Println(f.String())
		}
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(findings); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(findings); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format: %s (supported: text, yaml, json)", report)
	}

	if len(findings) > 0 {
		return fmt.Errorf("%d incomplete prologues", len(findings))
	}
	return nil
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tLANGUAGE\tCOMMENT\tHIGHLIGHT")
	for _, p := range protex.Profiles() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Code, p.Name, p.Comment, p.Highlight)
	}
	return w.Flush()
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
