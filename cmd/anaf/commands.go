package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/cosminsandu/anaf-go/internal/app"
	"github.com/cosminsandu/anaf-go/pkg/efactura"
	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

const dateLayout = "2006-01-02"

type savedFile struct {
	Path        string `json:"path" yaml:"path"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Size        int    `json:"size" yaml:"size"`
}

func saveFile(file *transporter.File, path string) (savedFile, error) {
	if err := file.Save(path); err != nil {
		return savedFile{}, err
	}
	return savedFile{Path: path, ContentType: file.ContentType(), Size: file.Size()}, nil
}

func messagesCommand(flags *pflag.FlagSet) runner {
	cif := flags.String("cif", "", "taxpayer identification number")
	days := flags.Int("days", efactura.MaxDays, "how many days back to list (1-60)")
	filter := flags.String("filter", "", "message filter: E, T, P or R")

	return func(ctx context.Context, rt *runtime) error {
		client, err := app.AuthorizedClient(rt.cfg, rt.log)
		if err != nil {
			return err
		}
		list, err := client.Efactura().Messages(ctx, efactura.MessagesParams{
			CIF:    *cif,
			Days:   *days,
			Filter: strings.ToUpper(*filter),
		})
		if err != nil {
			return err
		}
		return rt.out.Print(list)
	}
}

func downloadCommand(flags *pflag.FlagSet) runner {
	id := flags.String("id", "", "message id to download")
	out := flags.String("out", "", "destination path (default <id>.zip)")

	return func(ctx context.Context, rt *runtime) error {
		if strings.TrimSpace(*id) == "" {
			return fmt.Errorf("--id is required")
		}
		client, err := app.AuthorizedClient(rt.cfg, rt.log)
		if err != nil {
			return err
		}
		file, err := client.Efactura().Download(ctx, *id)
		if err != nil {
			return err
		}

		path := *out
		if path == "" {
			path = strings.TrimSpace(*id) + file.Extension()
		}
		saved, err := saveFile(file, path)
		if err != nil {
			return err
		}
		return rt.out.Print(saved)
	}
}

func xmlToPDFCommand(flags *pflag.FlagSet) runner {
	path := flags.String("file", "", "invoice XML file")
	standard := flags.String("standard", efactura.StandardFACT1, "XML standard: FACT1 or FCN")
	validate := flags.Bool("validate", false, "validate the XML before conversion")
	out := flags.String("out", "", "destination path (default next to the XML)")

	return func(ctx context.Context, rt *runtime) error {
		if strings.TrimSpace(*path) == "" {
			return fmt.Errorf("--file is required")
		}
		client, err := app.AuthorizedClient(rt.cfg, rt.log)
		if err != nil {
			return err
		}
		file, err := client.Efactura().XMLToPDF(ctx, *path, strings.ToUpper(*standard), *validate)
		if err != nil {
			return err
		}

		dest := *out
		if dest == "" {
			dest = strings.TrimSuffix(*path, filepath.Ext(*path)) + file.Extension()
		}
		saved, err := saveFile(file, dest)
		if err != nil {
			return err
		}
		return rt.out.Print(saved)
	}
}

func taxpayerCommand(flags *pflag.FlagSet) runner {
	cifs := flags.StringSlice("cif", nil, "taxpayer identification numbers (repeat or comma separate)")
	date := flags.String("date", "", "reference date YYYY-MM-DD (default today)")

	return func(ctx context.Context, rt *runtime) error {
		if len(*cifs) == 0 {
			return fmt.Errorf("--cif is required")
		}
		day := time.Now()
		if *date != "" {
			parsed, err := time.Parse(dateLayout, *date)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", *date, err)
			}
			day = parsed
		}

		client, err := app.PublicClient(rt.cfg, rt.log)
		if err != nil {
			return err
		}
		info, err := client.Taxpayer().Info(ctx, day, *cifs...)
		if err != nil {
			return err
		}
		return rt.out.Print(info)
	}
}

func syncCommand(flags *pflag.FlagSet) runner {
	once := flags.Bool("once", false, "run a single sync pass and exit")
	flags.String("companies-file", "", "companies registry file")
	flags.String("publishers-file", "", "publishers registry file")
	flags.String("download-dir", "", "directory receiving downloaded archives")

	return func(ctx context.Context, rt *runtime) error {
		syncer, err := app.NewSyncer(ctx, rt.cfg, rt.log)
		if err != nil {
			return err
		}
		if *once {
			return syncer.RunOnce(ctx)
		}
		return syncer.Run(ctx)
	}
}
