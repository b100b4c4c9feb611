package cli

import "github.com/spf13/pflag"

func addYesFlag(fs *pflag.FlagSet, yes *bool) {
	fs.BoolVarP(yes, "yes", "y", false, "Skip confirmation")
}

// addTemplateFileFlag registers --file/-f; "-" reads standard input.
func addTemplateFileFlag(fs *pflag.FlagSet, file *string) {
	fs.StringVarP(file, "file", "f", "", "Read the new template from a file ('-' for stdin)")
}
