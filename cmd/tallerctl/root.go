package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tallerctl",
		Short:         "Herramientas de línea de comandos del taller",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newPDFCommand())
	cmd.AddCommand(newWhatsAppCommand())
	cmd.AddCommand(newDLQCommand())
	return cmd
}

// leerYAML decodes a YAML file, or stdin when path is "-".
func leerYAML(path string, out interface{}) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("leer %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("yaml %s: %w", path, err)
	}
	return nil
}
