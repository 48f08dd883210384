package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/eslkit/minew-go/pkg/cli"
	"github.com/eslkit/minew-go/pkg/kv"
	"github.com/eslkit/minew-go/pkg/minew"
)

// Default timeouts for command actions. Exports and previews walk several
// endpoints, so they get the longer budget.
const (
	defaultTimeout = 60 * time.Second
	longTimeout    = 120 * time.Second
)

// testSessionStore, when set, backs the session cache instead of the
// on-disk BadgerDB. Set by tests.
var testSessionStore kv.Store

// openSessionCache opens the session cache under the config directory. A
// cache that cannot be opened, for example because a concurrent command
// holds the BadgerDB lock, degrades to no caching.
func openSessionCache() *cli.SessionCache {
	if testSessionStore != nil {
		return cli.NewSessionCache(testSessionStore)
	}
	cfg := getConfig()
	if cfg == nil {
		return nil
	}
	cache, err := cli.OpenSessionCache(filepath.Join(cfg.Dir(), "cache", "sessions"))
	if err != nil {
		printVerbose("session cache unavailable: %v", err)
		return nil
	}
	return cache
}

// baseURLFor returns the effective API base URL for a context.
func baseURLFor(cliCtx *cli.Context) string {
	if cliCtx.BaseURL != "" {
		return cliCtx.BaseURL
	}
	return minew.DefaultBaseURL
}

// newClient creates a platform client for a context, seeding it with a
// cached session token when one is given.
func newClient(cliCtx *cli.Context, sess *cli.Session) (*minew.Client, error) {
	var opts []minew.Option
	if cliCtx.BaseURL != "" {
		opts = append(opts, minew.WithBaseURL(cliCtx.BaseURL))
	}
	if cliCtx.Timeout > 0 {
		opts = append(opts, minew.WithTimeout(time.Duration(cliCtx.Timeout)*time.Second))
	}
	if sess != nil {
		opts = append(opts, minew.WithToken(sess.Token))
	}

	client, err := minew.NewClient(cliCtx.Username, cliCtx.Password, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// loadSession returns the cached session for a context if it matches the
// context's account and endpoint.
func loadSession(ctx context.Context, cache *cli.SessionCache, cliCtx *cli.Context) *cli.Session {
	if cache == nil {
		return nil
	}
	sess, err := cache.Load(ctx, cliCtx.Name)
	if err != nil {
		printVerbose("session cache read failed: %v", err)
		return nil
	}
	if !sess.Matches(cliCtx.Username, baseURLFor(cliCtx)) {
		return nil
	}
	printVerbose("Reusing cached session %s", cli.MaskToken(sess.Token))
	return sess
}

func dropSession(ctx context.Context, cache *cli.SessionCache, cliCtx *cli.Context) {
	if cache == nil {
		return
	}
	if err := cache.Drop(ctx, cliCtx.Name); err != nil {
		printVerbose("session cache drop failed: %v", err)
	}
}

// saveSession caches the client's token when it changed during the action.
func saveSession(ctx context.Context, cache *cli.SessionCache, cliCtx *cli.Context, cached *cli.Session, client *minew.Client) {
	if cache == nil {
		return
	}
	token := client.Token()
	if token == "" || (cached != nil && cached.Token == token) {
		return
	}
	sess := &cli.Session{
		Token:    token,
		Username: cliCtx.Username,
		BaseURL:  baseURLFor(cliCtx),
	}
	if err := cache.Save(ctx, cliCtx.Name, sess); err != nil {
		printVerbose("session cache write failed: %v", err)
	}
}

// runWithClient resolves the active context, builds a client reusing any
// cached session token, and runs the action. If the action fails with an
// authentication error while a cached token was in play, the stale session
// is dropped and the action runs once more on a freshly logged-in client.
func runWithClient(ctx context.Context, action func(ctx context.Context, client *minew.Client) error) error {
	cliCtx, err := getContext()
	if err != nil {
		return err
	}
	printVerbose("Using context: %s", cliCtx.Name)

	cache := openSessionCache()
	if cache != nil {
		defer cache.Close()
	}

	cached := loadSession(ctx, cache, cliCtx)
	client, err := newClient(cliCtx, cached)
	if err != nil {
		return err
	}

	err = action(ctx, client)
	if cached != nil && minew.IsAuthError(err) {
		printVerbose("cached session rejected, logging in again")
		dropSession(ctx, cache, cliCtx)
		cached = nil
		if client, err = newClient(cliCtx, nil); err != nil {
			return err
		}
		err = action(ctx, client)
	}
	if err != nil {
		return err
	}

	saveSession(ctx, cache, cliCtx, cached, client)
	return nil
}

// runAction is the standard command body: a bounded context plus
// runWithClient.
func runAction(timeout time.Duration, action func(ctx context.Context, client *minew.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return runWithClient(ctx, action)
}

// requireInputFile returns an error if the -f flag was not given.
func requireInputFile() error {
	if getInputFile() == "" {
		return fmt.Errorf("input file is required, use -f flag")
	}
	return nil
}

// resolveStoreID returns the explicit store ID when given, falling back to
// the context's default store.
func resolveStoreID(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	cliCtx, err := getContext()
	if err != nil {
		return "", err
	}
	if cliCtx.DefaultStore != "" {
		return cliCtx.DefaultStore, nil
	}
	return "", fmt.Errorf("no store ID given; pass --store or set default_store on the context")
}

// outputResult outputs the result, applying the --jq filter when set.
func outputResult(result any, outputPath string, asJSON bool) error {
	if jqExpr != "" {
		filtered, err := cli.ApplyJQ(result, jqExpr)
		if err != nil {
			return err
		}
		result = filtered
	}

	format := cli.FormatYAML
	if asJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputPath,
	})
}
