package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cosminsandu/anaf-go/internal/companies"
	"github.com/cosminsandu/anaf-go/internal/config"
	"github.com/cosminsandu/anaf-go/internal/inbox"
	"github.com/cosminsandu/anaf-go/internal/logger"
	"github.com/cosminsandu/anaf-go/internal/storage"
	"github.com/cosminsandu/anaf-go/pkg/publishers"
)

// Syncer is the inbox sync runtime. It periodically downloads new e-Factura
// messages for every enabled company, archives their ids and notifies the
// configured publishers.
type Syncer struct {
	cfg          *config.Config
	companyReg   *companies.Registry
	fanout       *publishers.Fanout
	inbox        *inbox.Service
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewSyncer builds a syncer runtime from config files.
func NewSyncer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	companyReg, err := companies.LoadRegistry(cfg.CompaniesFile)
	if err != nil {
		return nil, fmt.Errorf("load companies registry: %w", err)
	}
	enabled := companyReg.Enabled()
	cifs := make([]string, 0, len(enabled))
	for _, c := range enabled {
		cifs = append(cifs, c.CIF)
	}
	log.InfoObj("companies registry loaded", "companies_meta", map[string]any{
		"count": len(cifs),
		"cifs":  cifs,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	client, err := AuthorizedClient(cfg, log)
	if err != nil {
		_ = fanout.Close()
		return nil, err
	}

	storeOpts := storage.Options{
		MessageTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"message_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var pub inbox.EventPublisher
	if fanout.Size() > 0 {
		pub = fanout
	}
	svc := inbox.NewService(client.Efactura(), pub, store, cfg.DownloadDir, log)

	return &Syncer{
		cfg:          cfg,
		companyReg:   companyReg,
		fanout:       fanout,
		inbox:        svc,
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}, nil
}

// buildFanout returns an empty fanout when no publishers file is configured.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		log.InfoObj("no publishers file configured; events disabled", "publishers_file", "")
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// RunOnce performs a single sync pass and releases resources.
func (s *Syncer) RunOnce(ctx context.Context) error {
	if s == nil || s.inbox == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.close()
	return s.runOnce(ctx, s.companyReg.Enabled())
}

// Run starts the sync loop until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if s == nil || s.inbox == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.close()

	list := s.companyReg.Enabled()
	if len(list) == 0 {
		s.log.WarnObj("no companies enabled; syncer idle", "companies_file", s.cfg.CompaniesFile)
		<-ctx.Done()
		return nil
	}

	s.log.InfoObj("sync loop starting", "syncer_state", map[string]any{
		"companies_count":  len(list),
		"publishers_count": s.fanout.Size(),
		"sync_interval":    s.syncInterval.String(),
	})

	if err := s.runOnce(ctx, list); err != nil {
		s.log.ErrorObj("initial sync failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("sync loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := s.runOnce(ctx, list); err != nil {
				s.log.ErrorObj("scheduled sync failed", "error", err.Error())
			}
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context, list []companies.Company) error {
	start := time.Now()
	s.log.InfoObj("sync started", "sync_meta", map[string]any{
		"companies_count": len(list),
		"started_at":      start.UTC(),
	})
	if err := s.inbox.Run(ctx, list); err != nil {
		return err
	}
	s.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"companies_count": len(list),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the storage backend and publisher connections.
func (s *Syncer) close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}
