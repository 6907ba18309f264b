package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cosminsandu/anaf-go/internal/companies"
	"github.com/cosminsandu/anaf-go/pkg/efactura"
	"github.com/cosminsandu/anaf-go/pkg/publishers"
	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

// fakeMailbox serves preset message lists per CIF.
type fakeMailbox struct {
	mu        sync.Mutex
	lists     map[string][]efactura.Message
	listErr   error
	failID    string
	downloads []string
}

func (f *fakeMailbox) Messages(_ context.Context, p efactura.MessagesParams) (efactura.MessagesResponse, error) {
	if f.listErr != nil {
		return efactura.MessagesResponse{}, f.listErr
	}
	return efactura.MessagesResponse{Messages: f.lists[p.CIF]}, nil
}

func (f *fakeMailbox) Download(_ context.Context, id string) (*transporter.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, id)
	if id == f.failID {
		return nil, errors.New("boom")
	}
	return transporter.NewFile([]byte("PK-"+id), transporter.ContentTypeZip), nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishers.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

// fakeArchive tracks seen ids.
type fakeArchive struct {
	mu      sync.Mutex
	seen    map[string]bool
	failID  string
	failErr error
}

func (f *fakeArchive) SeenMessage(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failID && f.failErr != nil {
		return false, f.failErr
	}
	return f.seen[id], nil
}

func (f *fakeArchive) MarkMessage(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[id] = true
	return nil
}

func TestSyncCompanyDownloadsFreshMessagesOnly(t *testing.T) {
	dir := t.TempDir()
	mailbox := &fakeMailbox{lists: map[string][]efactura.Message{
		"123": {{ID: "1", Type: "FACTURA PRIMITA"}, {ID: "2", Type: "FACTURA PRIMITA"}},
	}}
	archive := &fakeArchive{seen: map[string]bool{"1": true}}
	pub := &fakePublisher{}

	svc := NewService(mailbox, pub, archive, dir, nil)
	res, err := svc.SyncCompany(context.Background(), companies.Company{CIF: "123", Days: 5})
	if err != nil {
		t.Fatalf("SyncCompany: %v", err)
	}
	if res.Listed != 2 || res.Skipped != 1 || res.Downloaded != 1 || res.Published != 1 {
		t.Fatalf("unexpected result %#v", res)
	}
	if len(mailbox.downloads) != 1 || mailbox.downloads[0] != "2" {
		t.Fatalf("expected only message 2 downloaded, got %v", mailbox.downloads)
	}

	want := filepath.Join(dir, "123", "2.zip")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read saved archive: %v", err)
	}
	if string(data) != "PK-2" {
		t.Fatalf("unexpected file content %q", data)
	}
	if !archive.seen["2"] {
		t.Fatalf("MarkMessage not called for downloaded message")
	}

	evt := pub.events[0]
	if evt.MessageID != "2" || evt.CIF != "123" || evt.FilePath != want || evt.Size != 4 {
		t.Fatalf("unexpected event %#v", evt)
	}
}

func TestSyncCompanyRepublishesAfterPublishFailure(t *testing.T) {
	mailbox := &fakeMailbox{lists: map[string][]efactura.Message{
		"123": {{ID: "7", Type: "FACTURA PRIMITA"}},
	}}
	archive := &fakeArchive{}
	pub := &fakePublisher{err: errors.New("queue down")}
	svc := NewService(mailbox, pub, archive, t.TempDir(), nil)
	company := companies.Company{CIF: "123", Days: 5}

	if _, err := svc.SyncCompany(context.Background(), company); err == nil {
		t.Fatalf("expected publish error on first pass")
	}
	if archive.seen["7"] {
		t.Fatalf("message must stay unarchived while its event is undelivered")
	}

	pub.err = nil
	res, err := svc.SyncCompany(context.Background(), company)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if res.Skipped != 0 || res.Downloaded != 1 || res.Published != 1 {
		t.Fatalf("unexpected second pass result %#v", res)
	}
	if len(pub.events) != 2 || pub.events[1].MessageID != "7" {
		t.Fatalf("expected the event to be published again, got %#v", pub.events)
	}
	if !archive.seen["7"] {
		t.Fatalf("message not archived after successful publish")
	}
}

func TestSyncCompanyTreatsEmptyInboxAsSuccess(t *testing.T) {
	mailbox := &fakeMailbox{listErr: &transporter.ServiceError{Message: "Nu exista mesaje in ultimele 5 zile"}}
	svc := NewService(mailbox, nil, nil, t.TempDir(), nil)

	res, err := svc.SyncCompany(context.Background(), companies.Company{CIF: "123", Days: 5})
	if err != nil {
		t.Fatalf("expected nil error for empty inbox, got %v", err)
	}
	if res.Listed != 0 {
		t.Fatalf("expected nothing listed, got %d", res.Listed)
	}
}

func TestSyncCompanyReportsServiceErrors(t *testing.T) {
	mailbox := &fakeMailbox{listErr: &transporter.ServiceError{Message: "Nu aveti drept de inrolare"}}
	svc := NewService(mailbox, nil, nil, t.TempDir(), nil)

	_, err := svc.SyncCompany(context.Background(), companies.Company{CIF: "123"})
	if !errors.Is(err, transporter.ErrServiceReported) {
		t.Fatalf("expected service reported error, got %v", err)
	}
}

func TestSyncCompanyAggregatesDownloadErrors(t *testing.T) {
	mailbox := &fakeMailbox{
		lists:  map[string][]efactura.Message{"123": {{ID: "bad"}, {ID: "good"}}},
		failID: "bad",
	}
	archive := &fakeArchive{}
	svc := NewService(mailbox, nil, archive, t.TempDir(), nil)

	res, err := svc.SyncCompany(context.Background(), companies.Company{CIF: "123"})
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected error mentioning bad message, got %v", err)
	}
	if res.Downloaded != 1 {
		t.Fatalf("expected the good message to still download, got %d", res.Downloaded)
	}
	if archive.seen["bad"] {
		t.Fatalf("failed message must not be archived")
	}
}

func TestSyncCompanyRetriesOnArchiveLookupError(t *testing.T) {
	mailbox := &fakeMailbox{lists: map[string][]efactura.Message{"123": {{ID: "x"}}}}
	archive := &fakeArchive{failID: "x", failErr: errors.New("lookup failed")}
	svc := NewService(mailbox, nil, archive, t.TempDir(), nil)

	res, err := svc.SyncCompany(context.Background(), companies.Company{CIF: "123"})
	if err != nil {
		t.Fatalf("SyncCompany: %v", err)
	}
	if res.Downloaded != 1 {
		t.Fatalf("expected message downloaded despite lookup error, got %#v", res)
	}
}

func TestRunRejectsEmptyCompanies(t *testing.T) {
	svc := NewService(&fakeMailbox{}, nil, nil, t.TempDir(), nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error when companies list empty")
	}
}

func TestRunAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(&fakeMailbox{}, nil, nil, t.TempDir(), nil)
	errs := svc.runAll(ctx, []companies.Company{{CIF: "123"}})
	if len(errs) != 0 {
		t.Fatalf("expected no errors on cancelled context, got %v", errs)
	}
}
