package protex

import (
	"fmt"
	"strings"
)

// HeadingLevel is the depth of a heading in the document
type HeadingLevel int

const (
	LevelSection HeadingLevel = iota
	LevelSubsection
	LevelSubsubsection
)

// Format turns recognised content into output fragments.
//
// Implementations are stateless, every method returns the complete fragment text
// including its trailing newline, or an empty string when the format has nothing to
// emit for it.
type Format interface {
	Name() string
	Extension() string

	Notice() string
	Preamble(style string) string
	Macros() string
	BeginDocument(t TitlePage) string
	EndDocument() string

	FileHeader(file, date string) string
	PrologueSection() string
	Separator() string
	ExampleSeparator() string
	Heading(level HeadingLevel, text, short string) string
	PageBreak() string
	IntroSection(text string) string
	IntroEnd() string

	Label(text string, emphasized bool) string
	DescriptionLabel() string
	FieldSkip() string

	BeginCode(lang string) string
	EndCode() string
	BeginVerbatim(lang string) string
	EndVerbatim() string
	Text(line string) string

	ResourceTable() string
	ResourceRow(cols []string) string
}

// Escape makes text safe for running text by escaping underscores
func Escape(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

// FormatByName returns the format registered under name
func FormatByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "latex", "tex":
		return LaTeX{}, nil
	case "markdown", "md":
		return Markdown{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

// LaTeX emits documents for the minted package
type LaTeX struct{}

func (LaTeX) Name() string      { return "latex" }
func (LaTeX) Extension() string { return ".tex" }

func (LaTeX) Notice() string {
	return "%                **** IMPORTANT NOTICE *****\n" +
		"% This LaTeX file was automatically generated by ProTeX\n" +
		"% Any changes made to this file will likely be lost next time\n" +
		"% it is regenerated from its source.\n\n"
}

func (LaTeX) Preamble(style string) string {
	var b strings.Builder
	b.WriteString("%------------------------ PREAMBLE --------------------------\n")
	if style != "" {
		fmt.Fprintf(&b, "\\documentclass[11pt]{%s}\n", style)
		fmt.Fprintf(&b, "\\usepackage{%s}\n", style)
	} else {
		b.WriteString("\\documentclass[11pt]{article}\n")
	}
	b.WriteString("\\usepackage{amsmath}\n")
	b.WriteString("\\usepackage{epsfig}\n")
	b.WriteString("\\usepackage{minted}\n")
	b.WriteString("\\textheight     9in\n")
	b.WriteString("\\topmargin      0pt\n")
	b.WriteString("\\headsep        1cm\n")
	b.WriteString("\\headheight     0pt\n")
	b.WriteString("\\textwidth      6in\n")
	b.WriteString("\\oddsidemargin  0in\n")
	b.WriteString("\\evensidemargin 0in\n")
	b.WriteString("\\marginparpush  0pt\n")
	b.WriteString("\\pagestyle{myheadings}\n")
	b.WriteString("\\markboth{}{}\n")
	b.WriteString("%-------------------------------------------------------------\n")
	b.WriteString("\\setlength{\\parskip}{0pt}\n")
	b.WriteString("\\setlength{\\parindent}{0pt}\n")
	b.WriteString("\\setlength{\\baselineskip}{11pt}\n")
	return b.String()
}

func (LaTeX) Macros() string {
	return "\n%--------------------- SHORT-HAND MACROS ----------------------\n" +
		"\\def\\be{\\begin{equation}}\n" +
		"\\def\\ee{\\end{equation}}\n" +
		"\\def\\bea{\\begin{eqnarray}}\n" +
		"\\def\\eea{\\end{eqnarray}}\n" +
		"\\def\\bi{\\begin{itemize}}\n" +
		"\\def\\ei{\\end{itemize}}\n" +
		"\\def\\bn{\\begin{enumerate}}\n" +
		"\\def\\en{\\end{enumerate}}\n" +
		"\\def\\bd{\\begin{description}}\n" +
		"\\def\\ed{\\end{description}}\n" +
		"\\def\\({\\left (}\n" +
		"\\def\\){\\right )}\n" +
		"\\def\\[{\\left [}\n" +
		"\\def\\]{\\right ]}\n" +
		"\\def\\<{\\left \\langle}\n" +
		"\\def\\>{\\right \\rangle}\n" +
		"\\def\\cI{{\\cal I}}\n" +
		"\\def\\diag{\\mathop{\\rm diag}}\n" +
		"\\def\\tr{\\mathop{\\rm tr}}\n" +
		"%-------------------------------------------------------------\n"
}

func (LaTeX) BeginDocument(t TitlePage) string {
	var b strings.Builder
	if t.Requested {
		fmt.Fprintf(&b, "\\title{%s}\n", t.Title)
		fmt.Fprintf(&b, "\\author{{\\sc %s}\\\\ {\\em %s}}\n", t.Author, t.Affiliation)
		fmt.Fprintf(&b, "\\date{%s}\n", t.Date)
	}
	b.WriteString("\\begin{document}\n")
	if t.Requested {
		b.WriteString("\\maketitle\n")
	}
	b.WriteString("\\tableofcontents\n")
	b.WriteString("\\newpage\n")
	return b.String()
}

func (LaTeX) EndDocument() string { return "\\end{document}\n" }

func (LaTeX) FileHeader(file, date string) string {
	return fmt.Sprintf("\n\\markboth{Left}{Source File: %s,  Date: %s}\n\n", file, date)
}

func (LaTeX) PrologueSection() string {
	return "\\section{Routine/Function Prologues} \\label{app:ProLogues}\n"
}

func (LaTeX) Separator() string { return "\n\\mbox{}\\hrulefill\\\n" }

func (LaTeX) ExampleSeparator() string {
	return "\n %/////////////////////////////////////////////////////////////\n"
}

func (LaTeX) Heading(level HeadingLevel, text, short string) string {
	cmd := "subsubsection"
	switch level {
	case LevelSection:
		cmd = "section"
	case LevelSubsection:
		cmd = "subsection"
	}
	if short != "" {
		return fmt.Sprintf("\\%s [%s]{%s}\n\n", cmd, short, text)
	}
	return fmt.Sprintf("\\%s{%s}\n\n", cmd, text)
}

func (LaTeX) PageBreak() string { return "\\newpage\n" }

func (LaTeX) IntroSection(text string) string {
	return " %..............................................\n" +
		fmt.Sprintf("\\section{%s}\n", text)
}

func (LaTeX) IntroEnd() string {
	return "\n %/////////////////////////////////////////////////////////////\n\\newpage\n"
}

func (LaTeX) Label(text string, emphasized bool) string {
	if emphasized {
		return fmt.Sprintf("{\\em %s}\n", text)
	}
	return fmt.Sprintf("{\\sf %s}\n", text)
}

func (LaTeX) DescriptionLabel() string { return "{\\sf DESCRIPTION:\\\\ }\n\n" }

func (LaTeX) FieldSkip() string { return "\n\\bigskip\n" }

func (LaTeX) BeginCode(lang string) string {
	return "\n %------------------ START CODE ------------------%\n" +
		fmt.Sprintf("\\begin{minted}[breaklines,breakafter=-+*/&]{%s}\n", lang)
}

func (LaTeX) EndCode() string {
	return "\n %------------------ END CODE ------------------%\n"
}

func (LaTeX) BeginVerbatim(lang string) string {
	return fmt.Sprintf("\\begin{minted}[breaklines]{%s}\n", lang)
}

func (LaTeX) EndVerbatim() string { return "\\end{minted}\n" }

func (LaTeX) Text(line string) string { return line + "\n" }

func (LaTeX) ResourceTable() string {
	return "\\begin{center}\n" +
		"{\\bf RESOURCES:}\\\\\n" +
		"\\begin{tabular}{|l|l|l|l|}\n" +
		"\\hline\n" +
		"\\textbf{Name} & \\textbf{Description} & \\textbf{Units} & \\textbf{Default} \\\\\n" +
		"\\hline\n" +
		"\\end{tabular}\n" +
		"\\end{center}\n"
}

func (LaTeX) ResourceRow(cols []string) string {
	return fmt.Sprintf("\\makebox[1.0in][l]{%s} & \\makebox[3.5in][l]{%s} & \\makebox[1.0in][l]{%s} & \\makebox[1.0in][l]{%s} \\\\\n\\hline\n",
		cols[0], cols[1], cols[2], cols[3])
}

// Markdown emits CommonMark with pipe tables and fenced code blocks
type Markdown struct{}

func (Markdown) Name() string      { return "markdown" }
func (Markdown) Extension() string { return ".md" }

func (Markdown) Notice() string {
	return "<!-- This file was automatically generated by ProTeX. Any changes made to it " +
		"will likely be lost next time it is regenerated from its source. -->\n\n"
}

func (Markdown) Preamble(string) string { return "" }
func (Markdown) Macros() string         { return "" }

func (Markdown) BeginDocument(t TitlePage) string {
	if !t.Requested {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	if t.Author != "" || t.Affiliation != "" {
		fmt.Fprintf(&b, "**%s**, *%s*\n\n", t.Author, t.Affiliation)
	}
	if t.Date != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Date)
	}
	return b.String()
}

func (Markdown) EndDocument() string { return "" }

func (Markdown) FileHeader(file, date string) string {
	return fmt.Sprintf("\n<!-- Source File: %s, Date: %s -->\n\n", file, date)
}

func (Markdown) PrologueSection() string { return "## Routine/Function Prologues\n\n" }

func (Markdown) Separator() string        { return "\n---\n\n" }
func (Markdown) ExampleSeparator() string { return "\n" }

func (Markdown) Heading(level HeadingLevel, text, _ string) string {
	return strings.Repeat("#", int(level)+2) + " " + text + "\n\n"
}

func (Markdown) PageBreak() string { return "" }

func (Markdown) IntroSection(text string) string { return "## " + text + "\n\n" }
func (Markdown) IntroEnd() string                { return "\n" }

func (Markdown) Label(text string, emphasized bool) string {
	if emphasized {
		return "*" + text + "*\n\n"
	}
	return "**" + text + "**\n\n"
}

func (Markdown) DescriptionLabel() string { return "**DESCRIPTION:**\n\n" }
func (Markdown) FieldSkip() string        { return "\n" }

func (Markdown) BeginCode(lang string) string     { return "\n```" + lang + "\n" }
func (Markdown) EndCode() string                  { return "\n" }
func (Markdown) BeginVerbatim(lang string) string { return "```" + lang + "\n" }
func (Markdown) EndVerbatim() string              { return "```\n" }
func (Markdown) Text(line string) string          { return line + "\n" }

func (Markdown) ResourceTable() string {
	return "**RESOURCES:**\n\n" +
		"| Name | Description | Units | Default |\n" +
		"| --- | --- | --- | --- |\n"
}

func (Markdown) ResourceRow(cols []string) string {
	return "| " + strings.Join(cols[:4], " | ") + " |\n"
}
