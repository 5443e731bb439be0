package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	rescreenErrors "rescreen/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	addr := httpServer.Addr

	switch s.TLSConfig.Mode {
	case "server":
		return s.configureServerTLS(httpServer, addr)
	case "disabled", "":
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", s.TLSConfig.Mode)
	}
}

// configureServerTLS sets up server-only TLS, with certificate hot-reload
// when enabled
func (s *Server) configureServerTLS(httpServer *http.Server, addr string) error {
	fmt.Printf("Starting server with HTTPS on https://%s\n", addr)

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if s.TLSConfig.AutoReload.Enabled {
		reloader, err := newCertReloader(s.TLSConfig.CertFile, s.TLSConfig.KeyFile,
			s.TLSConfig.AutoReload.DebounceDelay, s.Logger)
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		if err := reloader.Start(); err != nil {
			return fmt.Errorf("failed to start certificate watcher: %w", err)
		}
		s.certReloader = reloader
		tlsConfig.GetCertificate = reloader.GetCertificate
		fmt.Println("TLS auto-reload: ENABLED")
	} else {
		cert, err := tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
		if err != nil {
			return fmt.Errorf("failed to load server cert/key: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	httpServer.TLSConfig = tlsConfig
	return nil
}

// certReloader serves the current certificate pair and reloads it from disk
// when the files change.
type certReloader struct {
	certFile string
	keyFile  string
	debounce time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate

	watcher     *fsnotify.Watcher
	done        chan struct{}
	reloadCount atomic.Int64
	logger      *rescreenErrors.Logger
}

func newCertReloader(certFile, keyFile string, debounce time.Duration, logger *rescreenErrors.Logger) (*certReloader, error) {
	if certFile == "" || keyFile == "" {
		return nil, fmt.Errorf("TLS certificate and key files are required")
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	cr := &certReloader{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: debounce,
		done:     make(chan struct{}),
		logger:   logger,
	}

	if err := cr.reload(); err != nil {
		return nil, err
	}
	return cr, nil
}

// Start begins watching the certificate directories. Watching directories
// instead of the files themselves survives the rename-replace pattern used
// by most certificate rotation tooling.
func (cr *certReloader) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	cr.watcher = watcher

	dirs := map[string]bool{
		filepath.Dir(cr.certFile): true,
		filepath.Dir(cr.keyFile):  true,
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeErr := watcher.Close()
			if closeErr != nil {
				cr.logger.Debug("Failed to close watcher", "error", closeErr)
			}
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go cr.watchLoop()
	return nil
}

func (cr *certReloader) watchLoop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-cr.watcher.Events:
			if !ok {
				return
			}
			if !cr.isCertEvent(event) {
				continue
			}
			// Debounce rapid successive writes
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cr.debounce, func() {
				if err := cr.reload(); err != nil {
					cr.logger.LogError(err, "Failed to reload TLS certificates")
					return
				}
				cr.logger.Info("TLS certificates reloaded",
					"cert_file", cr.certFile,
					"reload_count", cr.reloadCount.Load())
			})
		case err, ok := <-cr.watcher.Errors:
			if !ok {
				return
			}
			cr.logger.LogError(err, "Certificate watcher error")
		case <-cr.done:
			return
		}
	}
}

func (cr *certReloader) isCertEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == filepath.Clean(cr.certFile) || name == filepath.Clean(cr.keyFile)
}

func (cr *certReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load server cert/key: %w", err)
	}

	cr.mu.Lock()
	cr.cert = &cert
	cr.mu.Unlock()
	cr.reloadCount.Add(1)

	return nil
}

// GetCertificate returns the current certificate for TLS handshakes
func (cr *certReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cr.cert, nil
}

// CheckExpiry returns the time remaining until the current certificate
// expires
func (cr *certReloader) CheckExpiry() (time.Duration, error) {
	cr.mu.RLock()
	cert := cr.cert
	cr.mu.RUnlock()

	if cert == nil || len(cert.Certificate) == 0 {
		return 0, fmt.Errorf("no certificate loaded")
	}

	leaf := cert.Leaf
	if leaf == nil {
		parsed, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return 0, fmt.Errorf("failed to parse certificate: %w", err)
		}
		leaf = parsed
	}

	return time.Until(leaf.NotAfter), nil
}

// ReloadCount returns how many times the certificate pair has been loaded,
// including the initial load.
func (cr *certReloader) ReloadCount() int64 {
	return cr.reloadCount.Load()
}

// Stop shuts down the watcher goroutine
func (cr *certReloader) Stop() error {
	close(cr.done)
	if cr.watcher != nil {
		return cr.watcher.Close()
	}
	return nil
}
