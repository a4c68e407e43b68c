package main

import (
	"fmt"
	"os"
	"path/filepath"

	"taller/internal/infra"

	"github.com/spf13/cobra"
)

type pdfOptions struct {
	in  string
	out string
}

func newPDFCommand() *cobra.Command {
	opts := &pdfOptions{}

	cmd := &cobra.Command{
		Use:   "pdf <orden|contrato>",
		Short: "Genera el PDF de una orden a partir de un snapshot YAML",
		Long: `Genera la orden de servicio o el contrato de reparación desde un
archivo YAML con la misma forma que el snapshot que usa el servidor
(numero_orden, cliente, equipo, checklist, costos, negocio...).`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"orden", "contrato"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPDF(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.in, "in", "-", "snapshot YAML (- para stdin)")
	cmd.Flags().StringVar(&opts.out, "out", "", "archivo de salida (por defecto <tipo>-<numero>.pdf)")
	return cmd
}

func runPDF(cmd *cobra.Command, tipo string, opts *pdfOptions) error {
	var doc infra.DocumentoOrden
	if err := leerYAML(opts.in, &doc); err != nil {
		return err
	}

	var (
		res *infra.Resultado
		err error
	)
	switch tipo {
	case "orden":
		res, err = infra.GenerarOrdenServicioPDF(doc, infra.OpcionesPDF{})
	case "contrato":
		res, err = infra.GenerarContratoPDF(doc, infra.OpcionesPDF{})
	default:
		return fmt.Errorf("tipo de documento desconocido %q (orden|contrato)", tipo)
	}
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("%s-%s.pdf", tipo, doc.NumeroOrden)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, res.PDF, 0o644); err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	for _, adv := range res.Advertencias {
		fmt.Fprintf(w, "advertencia: %s\n", adv)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d páginas, %d bytes)\n", out, res.Paginas, len(res.PDF))
	return nil
}
