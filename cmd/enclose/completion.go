package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-enclose"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota
	flagBool
	flagNumber
	flagEnum
	flagFile
	flagDir
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // flagEnum
	FileGlob []string // flagFile, e.g. "*.yaml"
}

// completionMeta holds completion hints that the FlagSet cannot express.
type completionMeta struct {
	Values   []string
	FileGlob []string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"step":       {Values: []string{stepCreate, stepProcess, stepSearch, stepAggregate, stepValidate}},
	"engine":     {Values: []string{string(enclose.EngineChrome), string(enclose.EngineNative)}},
	"config":     {FileGlob: []string{"*.yaml", "*.yml"}},
	"input":      {FileGlob: []string{"*.md", "*.markdown"}},
	"output":     {IsDir: true},
	"search-dir": {IsDir: true},
}

// commandNames lists the words accepted as first positional argument.
var commandNames = []string{"list", "validate", "doctor", "version", "help", "completion"}

// completionFlags extracts flag definitions from the CLI FlagSet, so flags
// are declared once in addFlags.
func completionFlags() []flagDef {
	fs := flag.NewFlagSet("enclose", flag.ContinueOnError)
	addFlags(fs, &cliFlags{})

	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "float64", "duration":
			fd.Type = flagNumber
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case len(meta.FileGlob) > 0:
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}
		defs = append(defs, fd)
	})
	return defs
}

// formatNames lists the conversion targets.
func formatNames() []string {
	formats := enclose.PipelineFormats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return names
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var b strings.Builder
	flags := completionFlags()

	switch shell {
	case ShellBash:
		writeBash(&b, flags)
	case ShellZsh:
		writeZsh(&b, flags)
	case ShellFish:
		writeFish(&b, flags)
	case ShellPowerShell:
		writePowerShell(&b, flags)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBash(b *strings.Builder, flags []flagDef) {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}

	b.WriteString("# bash completion for enclose\n")
	b.WriteString("_enclose() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range flags {
		var action string
		switch f.Type {
		case flagEnum:
			action = fmt.Sprintf("COMPREPLY=($(compgen -W %q -- \"$cur\"))", strings.Join(f.Values, " "))
		case flagFile:
			action = "COMPREPLY=($(compgen -f -- \"$cur\"))"
		case flagDir:
			action = "COMPREPLY=($(compgen -d -- \"$cur\"))"
		case flagString, flagNumber:
			action = "COMPREPLY=()"
		default:
			continue
		}
		fmt.Fprintf(b, "        %s)\n            %s\n            return ;;\n", bashPattern(f), action)
	}
	b.WriteString("    esac\n\n")
	fmt.Fprintf(b, "    if [[ \"$cur\" == -* ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n        return\n    fi\n", strings.Join(words, " "))
	fmt.Fprintf(b, "    if [[ $COMP_CWORD -eq 1 ]]; then\n        COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\"))\n        return\n    fi\n", strings.Join(commandNames, " "))
	fmt.Fprintf(b, "    COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\"))\n", strings.Join(formatNames(), " "))
	b.WriteString("}\n")
	b.WriteString("complete -F _enclose enclose\n")
}

func bashPattern(f flagDef) string {
	if f.Short != "" {
		return "-" + f.Short + "|--" + f.Long
	}
	return "--" + f.Long
}

func writeZsh(b *strings.Builder, flags []flagDef) {
	b.WriteString("#compdef enclose\n\n")
	b.WriteString("_enclose() {\n")
	b.WriteString("    _arguments -s \\\n")
	for _, f := range flags {
		desc := zshEscape(f.Desc)
		var action string
		switch f.Type {
		case flagEnum:
			action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
		case flagFile:
			action = fmt.Sprintf(":file:_files -g \"%s\"", strings.Join(f.FileGlob, " "))
		case flagDir:
			action = ":directory:_files -/"
		case flagString, flagNumber:
			action = ":" + f.Long + ":"
		}
		if f.Short != "" {
			fmt.Fprintf(b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
		} else {
			fmt.Fprintf(b, "        '--%s[%s]%s' \\\n", f.Long, desc, action)
		}
	}
	fmt.Fprintf(b, "        '1: :_alternative \"commands:command:(%s)\" \"files:file:_files\"' \\\n", strings.Join(commandNames, " "))
	fmt.Fprintf(b, "        '2:format:(%s)'\n", strings.Join(formatNames(), " "))
	b.WriteString("}\n\n")
	b.WriteString("compdef _enclose enclose\n")
}

func zshEscape(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]", "'", "'\\''", ":", "\\:").Replace(s)
}

func writeFish(b *strings.Builder, flags []flagDef) {
	b.WriteString("# fish completion for enclose\n")
	b.WriteString("complete -c enclose -f\n")
	for _, f := range flags {
		line := "complete -c enclose -l " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += " -d " + fishQuote(f.Desc)
		switch f.Type {
		case flagEnum:
			line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
		case flagFile:
			line += " -r -F"
		case flagDir:
			line += " -x -a '(__fish_complete_directories)'"
		case flagString, flagNumber:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(b, "complete -c enclose -n '__fish_use_subcommand' -a %s\n", fishQuote(strings.Join(commandNames, " ")))
	b.WriteString("complete -c enclose -n '__fish_use_subcommand' -F\n")
	fmt.Fprintf(b, "complete -c enclose -n 'test (count (commandline -opc)) -eq 2' -a %s\n", fishQuote(strings.Join(formatNames(), " ")))
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func writePowerShell(b *strings.Builder, flags []flagDef) {
	quote := func(s string) string { return "'" + strings.ReplaceAll(s, "'", "''") + "'" }

	var words []string
	for _, f := range flags {
		words = append(words, quote("--"+f.Long))
		if f.Short != "" {
			words = append(words, quote("-"+f.Short))
		}
	}
	var cmds []string
	for _, c := range commandNames {
		cmds = append(cmds, quote(c))
	}
	var formats []string
	for _, f := range formatNames() {
		formats = append(formats, quote(f))
	}

	b.WriteString("# PowerShell completion for enclose\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName enclose -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	fmt.Fprintf(b, "    $flags = @(%s)\n", strings.Join(words, ", "))
	fmt.Fprintf(b, "    $commands = @(%s)\n", strings.Join(cmds, ", "))
	fmt.Fprintf(b, "    $formats = @(%s)\n", strings.Join(formats, ", "))
	b.WriteString("    $position = $commandAst.CommandElements.Count\n")
	b.WriteString("    if ($wordToComplete -like '-*') { $candidates = $flags }\n")
	b.WriteString("    elseif ($position -le 2) { $candidates = $commands }\n")
	b.WriteString("    else { $candidates = $formats }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

// runCompletion handles `enclose completion [shell]`.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: enclose completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a completion script for bash, zsh, fish or powershell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:       eval \"$(enclose completion bash)\"        # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:        eval \"$(enclose completion zsh)\"         # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:       enclose completion fish > ~/.config/fish/completions/enclose.fish")
	fmt.Fprintln(w, "  PowerShell: enclose completion powershell | Out-String | Invoke-Expression")
}
