// Package inbox downloads new e-Factura messages for the configured companies.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cosminsandu/anaf-go/internal/companies"
	"github.com/cosminsandu/anaf-go/internal/logger"
	"github.com/cosminsandu/anaf-go/pkg/efactura"
	"github.com/cosminsandu/anaf-go/pkg/publishers"
	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

// ANAF reports an empty inbox through the eroare key rather than an empty list.
const noMessagesPrefix = "Nu exista mesaje"

// Result summarizes one company sync pass.
type Result struct {
	CIF        string
	Listed     int
	Skipped    int
	Downloaded int
	Published  int
}

// Service coordinates inbox syncing across companies.
type Service struct {
	mailbox     Mailbox
	publisher   EventPublisher
	archive     Archive
	downloadDir string
	log         logger.Logger
}

// NewService wires an inbox syncer. publisher and archive may be nil.
func NewService(mailbox Mailbox, publisher EventPublisher, archive Archive, downloadDir string, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		mailbox:     mailbox,
		publisher:   publisher,
		archive:     archive,
		downloadDir: downloadDir,
		log:         log,
	}
}

// Run executes a sync pass for all given companies.
func (s *Service) Run(ctx context.Context, list []companies.Company) error {
	if s == nil || s.mailbox == nil {
		return fmt.Errorf("inbox service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no companies configured for syncing")
	}

	errs := s.runAll(ctx, list)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, list []companies.Company) []error {
	errs := make([]error, 0, len(list))

	for _, c := range list {
		if ctx.Err() != nil {
			break
		}
		res, err := s.SyncCompany(ctx, c)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("company sync failed", "company_error", map[string]any{
				"cif":   c.CIF,
				"error": err.Error(),
			})
			continue
		}
		s.log.InfoObj("company sync completed", "company_result", map[string]any{
			"cif":        res.CIF,
			"listed":     res.Listed,
			"skipped":    res.Skipped,
			"downloaded": res.Downloaded,
			"published":  res.Published,
		})
	}

	return errs
}

// SyncCompany downloads every message for c that the archive has not seen.
func (s *Service) SyncCompany(ctx context.Context, c companies.Company) (Result, error) {
	res := Result{CIF: c.CIF}

	list, err := s.mailbox.Messages(ctx, efactura.MessagesParams{
		CIF:    c.CIF,
		Days:   c.Days,
		Filter: c.Filter,
	})
	if err != nil {
		if isEmptyInbox(err) {
			s.log.DebugObj("inbox empty", "company_inbox", map[string]any{"cif": c.CIF})
			return res, nil
		}
		return res, fmt.Errorf("list messages for %s: %w", c.CIF, err)
	}
	res.Listed = len(list.Messages)

	var errs []error
	for _, msg := range list.Messages {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if msg.ID == "" {
			continue
		}
		if s.seen(msg.ID) {
			res.Skipped++
			continue
		}

		published, err := s.fetch(ctx, c, msg)
		if err != nil {
			errs = append(errs, fmt.Errorf("message %s for %s: %w", msg.ID, c.CIF, err))
			continue
		}
		res.Downloaded++
		res.Published += published
	}

	return res, errors.Join(errs...)
}

func (s *Service) fetch(ctx context.Context, c companies.Company, msg efactura.Message) (int, error) {
	file, err := s.mailbox.Download(ctx, msg.ID)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	path := s.pathFor(c.CIF, msg.ID, file)
	if err := file.Save(path); err != nil {
		return 0, err
	}
	s.log.DebugObj("message downloaded", "message_file", map[string]any{
		"cif":        c.CIF,
		"message_id": msg.ID,
		"path":       path,
		"size":       file.Size(),
	})

	var published int
	if s.publisher != nil {
		evt := publishers.NewEvent(c.CIF, msg.ID, msg.Type, path, file.Size())
		n, err := s.publisher.Publish(ctx, evt)
		if err != nil {
			// Left unarchived so the next pass downloads and publishes it again.
			return n, fmt.Errorf("publish: %w", err)
		}
		published = n
	}

	s.mark(msg.ID)
	return published, nil
}

func (s *Service) mark(id string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.MarkMessage(id); err != nil {
		s.log.WarnObj("archive mark failed", "archive_error", map[string]any{
			"message_id": id,
			"error":      err.Error(),
		})
	}
}

// seen treats archive lookup failures as unseen so the message is retried.
func (s *Service) seen(id string) bool {
	if s.archive == nil {
		return false
	}
	ok, err := s.archive.SeenMessage(id)
	if err != nil {
		s.log.WarnObj("archive lookup failed", "archive_error", map[string]any{
			"message_id": id,
			"error":      err.Error(),
		})
		return false
	}
	return ok
}

func (s *Service) pathFor(cif, id string, file *transporter.File) string {
	ext := file.Extension()
	if ext == "" {
		ext = ".bin"
	}
	return filepath.Join(s.downloadDir, cif, id+ext)
}

func isEmptyInbox(err error) bool {
	var svcErr *transporter.ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	return strings.HasPrefix(svcErr.Message, noMessagesPrefix)
}
