package main

import (
	"crypto/tls"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"synopsis/internal/config"
	"synopsis/internal/services/plex"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// libraryClient builds a Plex client sharing the run's HTTP settings.
func (c *commandContext) libraryClient() (*plex.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Sync.RequestTimeout) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.Sync.VerifyTLS},
		},
	}
	return plex.New(cfg.Plex.URL, cfg.Plex.Token, plex.WithHTTPClient(httpClient))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
