// Package config loads runtime settings from a .lexiguess.kdl file and
// applies defaults for everything the file leaves out.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

const FileName = ".lexiguess.kdl"

// Config is the full runtime configuration.
type Config struct {
	Server   Server
	Articles Articles
	Store    StoreCfg
	Auth     Auth
}

type Server struct {
	Addr string
}

type Articles struct {
	Dir   string
	Watch bool
}

type StoreCfg struct {
	Path string
}

type Auth struct {
	Secret   string
	TTLHours int
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:   Server{Addr: ":8080"},
		Articles: Articles{Dir: "articles", Watch: true},
		Store:    StoreCfg{Path: "lexiguess.db"},
		Auth:     Auth{TTLHours: 24 * 30},
	}
}

// Load reads <dir>/.lexiguess.kdl. A missing file is not an error: the
// defaults are returned as-is. Relative paths in the file are resolved
// relative to dir.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.resolvePaths(dir)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: lecture de %s: %w", path, err)
	}

	if err := parseKDL(cfg, string(content)); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.resolvePaths(dir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) resolvePaths(dir string) {
	if c.Articles.Dir != "" && !filepath.IsAbs(c.Articles.Dir) {
		c.Articles.Dir = filepath.Clean(filepath.Join(dir, c.Articles.Dir))
	}
	if c.Store.Path != "" && c.Store.Path != ":memory:" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Clean(filepath.Join(dir, c.Store.Path))
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr ne peut pas être vide")
	}
	if strings.TrimSpace(c.Articles.Dir) == "" {
		return fmt.Errorf("articles.dir ne peut pas être vide")
	}
	if c.Auth.TTLHours <= 0 {
		return fmt.Errorf("auth.ttl_hours doit être positif")
	}
	return nil
}

func parseKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("analyse KDL: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "server":
			for _, cn := range n.Children {
				if nodeName(cn) == "addr" {
					if s, ok := firstStringArg(cn); ok {
						cfg.Server.Addr = s
					}
				}
			}
		case "articles":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dir":
					if s, ok := firstStringArg(cn); ok {
						cfg.Articles.Dir = s
					}
				case "watch":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Articles.Watch = b
					}
				}
			}
		case "store":
			for _, cn := range n.Children {
				if nodeName(cn) == "path" {
					if s, ok := firstStringArg(cn); ok {
						cfg.Store.Path = s
					}
				}
			}
		case "auth":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "secret":
					if s, ok := firstStringArg(cn); ok {
						cfg.Auth.Secret = s
					}
				case "ttl_hours":
					if v, ok := firstIntArg(cn); ok {
						cfg.Auth.TTLHours = v
					}
				}
			}
		}
	}
	return nil
}

// Helpers over the kdl-go document model.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
