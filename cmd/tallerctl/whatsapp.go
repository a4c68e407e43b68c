package main

import (
	"fmt"
	"strings"

	"taller/internal/whatsapp"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// mensajeEntrada is the YAML input for the whatsapp command.
type mensajeEntrada struct {
	Cliente struct {
		Nombre   string `yaml:"nombre"`
		Telefono string `yaml:"telefono"`
	} `yaml:"cliente"`
	Orden struct {
		NumeroOrden     string          `yaml:"numero_orden"`
		Marca           string          `yaml:"marca"`
		Modelo          string          `yaml:"modelo"`
		Problema        string          `yaml:"problema"`
		CostoTotal      decimal.Decimal `yaml:"costo_total"`
		Anticipo        decimal.Decimal `yaml:"anticipo"`
		SaldoPendiente  decimal.Decimal `yaml:"saldo_pendiente"`
		Diagnostico     string          `yaml:"diagnostico"`
		UbicacionTaller string          `yaml:"ubicacion_taller"`
		TelefonoTaller  string          `yaml:"telefono_taller"`
	} `yaml:"orden"`
	Extra struct {
		DiasPendiente  int    `yaml:"dias_pendiente"`
		DiasRestantes  int    `yaml:"dias_restantes"`
		DatosFaltantes string `yaml:"datos_faltantes"`
	} `yaml:"extra"`
}

type whatsAppOptions struct {
	plantilla string
	in        string
	pais      string
}

func newWhatsAppCommand() *cobra.Command {
	opts := &whatsAppOptions{}

	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Compone un mensaje de WhatsApp y su enlace wa.me",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhatsApp(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.plantilla, "plantilla", whatsapp.Recepcion,
		"plantilla: "+strings.Join(whatsapp.Claves(), ", "))
	cmd.Flags().StringVar(&opts.in, "in", "-", "datos YAML (- para stdin)")
	cmd.Flags().StringVar(&opts.pais, "pais", "52", "código de país para el teléfono")
	return cmd
}

func runWhatsApp(cmd *cobra.Command, opts *whatsAppOptions) error {
	var in mensajeEntrada
	if err := leerYAML(opts.in, &in); err != nil {
		return err
	}

	msg, err := whatsapp.Componer(opts.plantilla,
		whatsapp.Cliente{Nombre: in.Cliente.Nombre, Telefono: in.Cliente.Telefono},
		whatsapp.Orden{
			NumeroOrden:     in.Orden.NumeroOrden,
			Marca:           in.Orden.Marca,
			Modelo:          in.Orden.Modelo,
			Problema:        in.Orden.Problema,
			CostoTotal:      in.Orden.CostoTotal,
			Anticipo:        in.Orden.Anticipo,
			SaldoPendiente:  in.Orden.SaldoPendiente,
			Diagnostico:     in.Orden.Diagnostico,
			UbicacionTaller: in.Orden.UbicacionTaller,
			TelefonoTaller:  in.Orden.TelefonoTaller,
		},
		whatsapp.Extra{
			DiasPendiente:  in.Extra.DiasPendiente,
			DiasRestantes:  in.Extra.DiasRestantes,
			DatosFaltantes: in.Extra.DatosFaltantes,
		})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, msg)
	fmt.Fprintln(w)
	fmt.Fprintln(w, whatsapp.LinkCompleto(in.Cliente.Telefono, opts.pais, msg))
	return nil
}
