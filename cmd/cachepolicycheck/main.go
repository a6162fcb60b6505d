// Command cachepolicycheck evaluates a single recorded HTTP exchange against
// the httpcache policy engine and reports whether it is storable, how long
// it would stay fresh, and what a client should do with it right now.
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cacheware/httpcachepolicy"
)

// exchangeConfig is the shape of the YAML/JSON exchange description read by
// viper. It models exactly the inputs a [httpcache.Policy] is built from.
type exchangeConfig struct {
	Request struct {
		Method  string            `mapstructure:"method"`
		URI     string            `mapstructure:"uri"`
		Headers map[string]string `mapstructure:"headers"`
	} `mapstructure:"request"`

	Response struct {
		Status  int               `mapstructure:"status"`
		Headers map[string]string `mapstructure:"headers"`
	} `mapstructure:"response"`

	Options struct {
		Privacy                string        `mapstructure:"privacy"`
		CacheHeuristic         float64       `mapstructure:"cache_heuristic"`
		ImmutableMinTimeToLive time.Duration `mapstructure:"immutable_min_ttl"`
		IgnoreCargoCult        bool          `mapstructure:"ignore_cargo_cult"`
	} `mapstructure:"options"`

	// AsOf is when to evaluate the policy, RFC3339. Defaults to now.
	AsOf string `mapstructure:"as_of"`

	// Revalidate, if set, is a second response received later (typically a
	// 304) that drives an AfterResponse walkthrough in addition to the
	// BeforeRequest one.
	Revalidate *revalidateConfig `mapstructure:"revalidate"`
}

// revalidateConfig describes the origin's response to a conditional
// revalidation request, for the optional AfterResponse walkthrough.
type revalidateConfig struct {
	Status  int               `mapstructure:"status"`
	Headers map[string]string `mapstructure:"headers"`
	AsOf    string            `mapstructure:"as_of"`
}

func init() {
	viper.SetDefault("options.privacy", "shared")
	viper.SetDefault("options.cache_heuristic", 0.1)
	viper.SetDefault("options.immutable_min_ttl", 24*time.Hour)
	viper.SetDefault("options.ignore_cargo_cult", false)
	viper.SetDefault("request.method", http.MethodGet)
}

func main() {
	log.SetHandler(cli.Default)

	if err := run(os.Args[1:]); err != nil {
		log.WithError(err).Fatal("cachepolicycheck failed")
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("cachepolicycheck", pflag.ContinueOnError)
	configPath := flagSet.StringP("config", "c", "exchange.yaml", "path to the exchange description file")

	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cachepolicycheck -c exchange.yaml\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	viper.SetConfigFile(*configPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", *configPath, err)
	}

	var cfg exchangeConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding exchange: %w", err)
	}

	policy, req, now, err := buildPolicy(cfg)
	if err != nil {
		return err
	}

	report(policy, now)
	before := walkthroughBeforeRequest(policy, req, now)
	walkthroughAfterResponse(policy, req, before, cfg.Revalidate)
	return nil
}

func buildPolicy(cfg exchangeConfig) (httpcache.Policy, httpcache.RequestParts, time.Time, error) {
	uri, err := url.Parse(cfg.Request.URI)
	if err != nil {
		return httpcache.Policy{}, httpcache.RequestParts{}, time.Time{}, fmt.Errorf("parsing request.uri: %w", err)
	}

	now := time.Now()
	if cfg.AsOf != "" {
		now, err = time.Parse(time.RFC3339, cfg.AsOf)
		if err != nil {
			return httpcache.Policy{}, httpcache.RequestParts{}, time.Time{}, fmt.Errorf("parsing as_of: %w", err)
		}
	}

	req := httpcache.RequestParts{
		RequestMethod: cfg.Request.Method,
		RequestURI:    uri,
		RequestHeader: headerFromMap(cfg.Request.Headers),
	}
	res := httpcache.ResponseParts{
		ResponseStatusCode: cfg.Response.Status,
		ResponseHeader:     headerFromMap(cfg.Response.Headers),
	}

	options := httpcache.DefaultOptions().
		WithCacheHeuristic(cfg.Options.CacheHeuristic).
		WithImmutableMinTimeToLive(cfg.Options.ImmutableMinTimeToLive).
		WithIgnoreCargoCult(cfg.Options.IgnoreCargoCult)

	if cfg.Options.Privacy == "private" {
		options = options.WithPrivacy(httpcache.PrivacyPrivate)
	}

	return httpcache.NewOptions(req, res, now, options), req, now, nil
}

func headerFromMap(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

func report(policy httpcache.Policy, now time.Time) {
	entry := log.WithFields(log.Fields{
		"storable":     policy.IsStorable(),
		"stale":        policy.IsStale(now),
		"age":          policy.Age(now).String(),
		"time_to_live": policy.TimeToLive(now).String(),
	})

	if !policy.IsStorable() {
		entry.Warn("response is not storable")
		return
	}

	if policy.IsStale(now) {
		entry.Info("stored response is stale, revalidation required")
		return
	}

	entry.Info("stored response is fresh")
}

// walkthroughBeforeRequest runs the client-side half of the protocol: can
// the stored response be served as-is, or must the caller revalidate with
// the origin first. It returns the result so walkthroughAfterResponse can
// feed a configured revalidation response through the other half.
func walkthroughBeforeRequest(policy httpcache.Policy, req httpcache.RequestParts, now time.Time) httpcache.BeforeRequest {
	before := policy.BeforeRequest(req, now)

	if before.IsFresh() {
		log.WithField("age", policy.Age(now).String()).
			Info("before_request: serving cached response without contacting the origin")
		return before
	}

	log.WithFields(log.Fields{
		"if_none_match":     before.Request().Header().Get("If-None-Match"),
		"if_modified_since": before.Request().Header().Get("If-Modified-Since"),
	}).Info("before_request: revalidation required, sending conditional request to origin")

	return before
}

// walkthroughAfterResponse, given a configured revalidate block, replays
// the origin's revalidation response through Policy.AfterResponse and
// reports whether the stored entry was confirmed fresh or replaced.
func walkthroughAfterResponse(policy httpcache.Policy, req httpcache.RequestParts, before httpcache.BeforeRequest, revalidate *revalidateConfig) {
	if revalidate == nil {
		return
	}

	responseTime := time.Now()
	if revalidate.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, revalidate.AsOf)
		if err != nil {
			log.WithError(err).Warn("after_response: parsing revalidate.as_of, skipping walkthrough")
			return
		}
		responseTime = parsed
	}

	revalidationReq := req
	if !before.IsFresh() {
		revalidationReq = before.Request()
	}

	res := httpcache.ResponseParts{
		ResponseStatusCode: revalidate.Status,
		ResponseHeader:     headerFromMap(revalidate.Headers),
	}

	after := policy.AfterResponse(revalidationReq, res, responseTime)

	entry := log.WithFields(log.Fields{
		"modified":         after.IsModified(),
		"new_time_to_live": after.Policy().TimeToLive(responseTime).String(),
	})

	if after.IsModified() {
		entry.Info("after_response: origin returned a new representation, replacing the cached entry")
		return
	}

	entry.Info("after_response: origin confirmed the cached entry is still valid")
}
