package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lexiguess/lexiguess/internal/article"
	"github.com/lexiguess/lexiguess/internal/auth"
	"github.com/lexiguess/lexiguess/internal/config"
	"github.com/lexiguess/lexiguess/internal/game"
	"github.com/lexiguess/lexiguess/internal/index"
	"github.com/lexiguess/lexiguess/internal/server"
	"github.com/lexiguess/lexiguess/internal/store"
	"github.com/lexiguess/lexiguess/internal/version"
)

const shutdownGrace = 10 * time.Second

func main() {
	app := &cli.App{
		Name:    "lexiguess",
		Usage:   "Jeu du jour : deviner l'article masqué",
		Version: version.Info(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Aliases: []string{"c"},
				Usage:   "Directory holding " + config.FileName,
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "articles",
				Usage: "Articles directory (overrides config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP game server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "SQLite database path (overrides config)",
					},
				},
				Action: serveCommand,
			},
			{
				Name:      "inspect",
				Usage:     "Show index statistics for one day's article",
				ArgsUsage: "[YYYY-MM-DD]",
				Action:    inspectCommand,
			},
			{
				Name:      "guess",
				Usage:     "Match one guess against today's article",
				ArgsUsage: "<word>",
				Action:    guessCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lexiguess:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config-dir"))
	if err != nil {
		return nil, err
	}
	if v := c.String("articles"); v != "" {
		cfg.Articles.Dir = v
	}
	if v := c.String("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := c.String("db"); v != "" {
		cfg.Store.Path = v
	}
	return cfg, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	src := article.NewDirSource(cfg.Articles.Dir)
	engine := game.NewEngine(index.SourceFunc(func(dateKey string) (article.RawArticle, error) {
		return st.EnsureDailyArticle(dateKey, func() (article.RawArticle, error) {
			return src.Article(dateKey)
		})
	}))

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		log.Println("auth: pas de secret configuré, les sessions ne survivront pas au redémarrage")
	}
	authMgr := auth.NewManager(secret, time.Duration(cfg.Auth.TTLHours)*time.Hour)

	if cfg.Articles.Watch {
		w, err := article.Watch(cfg.Articles.Dir, "*.json", engine.Invalidate)
		if err != nil {
			log.Printf("articles: surveillance désactivée: %v", err)
		} else {
			defer w.Close()
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(engine, st, authMgr),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("lexiguess %s à l'écoute sur %s", version.Info(), cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("signal %v reçu, arrêt en cours", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("arrêt du serveur: %w", err)
	}
	return nil
}

func inspectCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dateKey := c.Args().First()
	if dateKey == "" {
		dateKey = index.DateKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		return fmt.Errorf("date invalide %q (attendu AAAA-MM-JJ)", dateKey)
	}

	src := article.NewDirSource(cfg.Articles.Dir)
	art, err := src.Article(dateKey)
	if errors.Is(err, article.ErrNotFound) {
		return fmt.Errorf("pas d'article pour %s dans %s", dateKey, cfg.Articles.Dir)
	}
	if err != nil {
		return err
	}

	snap := index.Build(art, dateKey)
	fmt.Printf("Date        : %s\n", snap.DateKey)
	fmt.Printf("Titre       : %s\n", art.Title)
	fmt.Printf("Sections    : %d\n", len(art.Sections))
	fmt.Printf("Mots        : %d\n", snap.TotalWords)
	fmt.Printf("Mots uniques: %d\n", len(snap.Keys()))
	fmt.Printf("Mots du titre: %d\n", len(snap.TitleWords))
	fmt.Printf("Empreinte   : %016x\n", snap.Fingerprint)
	return nil
}

func guessCommand(c *cli.Context) error {
	word := c.Args().First()
	if word == "" {
		return fmt.Errorf("usage: lexiguess guess <mot>")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine := game.NewEngine(article.NewDirSource(cfg.Articles.Dir))
	result, err := engine.SubmitGuess(word)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func randomSecret() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}
