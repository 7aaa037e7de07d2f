/*
Package cli provides command-line interface utilities for proxyforge.

The cli package includes output formatters, error labelling and signal
handling used by the proxyforge command.

Output Formatting:

Command results are printed as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, summary); err != nil {
		return err
	}

The text formatter prints values implementing fmt.Stringer through their
String method.

Error Reporting:

Every failure is printed as one labelled line naming its class:

	error [missing-configuration]: required key SERVICE_COUNT is not set

ErrorLabel maps an error to its label and PrintError writes the line.

Signal Handling:

For cancellation on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
