package testhelpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pageza/recipeshare/backend/internal/storage"
)

// FakeFileStore keeps files in memory. Set SaveErr or DeleteErr to inject failures.
type FakeFileStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	SaveErr   error
	DeleteErr error
	Deleted   []string
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{files: make(map[string][]byte)}
}

func (f *FakeFileStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SaveErr != nil {
		return "", f.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := storage.GenerateName(originalName)
	f.files[name] = data
	return name, nil
}

func (f *FakeFileStore) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.files[name]; !ok {
		return storage.ErrNotFound
	}
	delete(f.files, name)
	f.Deleted = append(f.Deleted, name)
	return nil
}

// Put seeds a stored file
func (f *FakeFileStore) Put(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = data
}

func (f *FakeFileStore) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[name]
	return ok
}

func (f *FakeFileStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

// SentEmail is one message captured by FakeMailer
type SentEmail struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// FakeMailer records messages. Addresses in FailFor are rejected.
type FakeMailer struct {
	mu      sync.Mutex
	Sent    []SentEmail
	FailFor map[string]bool
}

var ErrMailRejected = errors.New("mail rejected")

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{FailFor: make(map[string]bool)}
}

func (m *FakeMailer) SendEmail(_ context.Context, to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFor[to] {
		return fmt.Errorf("send to %s: %w", to, ErrMailRejected)
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})
	return nil
}
