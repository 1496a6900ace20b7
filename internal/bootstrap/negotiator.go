package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mosdac-ai/orbit/internal/driver"
)

const (
	systemDatabase  = "system"
	defaultFallback = "neo4j"
)

// Target is the database the negotiator settled on.
type Target struct {
	Database      string
	Edition       string
	UsingFallback bool
	// Note carries operator guidance, e.g. that downstream tooling must be
	// repointed at an alternate database.
	Note string
}

type outcome int

const (
	// outcomeContinue means this strategy cannot serve; try the next one.
	outcomeContinue outcome = iota
	outcomeSuccess
	outcomeFatal
)

type strategyResult struct {
	outcome outcome
	target  Target
	err     error
}

type strategy struct {
	name string
	run  func(ctx context.Context) strategyResult
}

// Negotiator probes the backend's capability tier and establishes a usable
// target database, falling through an ordered list of strategies.
type Negotiator struct {
	Driver driver.GraphDriver
	// RequiredDatabase is the isolated database the loader prefers.
	RequiredDatabase string
	// AlternateDatabase is created when RequiredDatabase's name is rejected.
	AlternateDatabase string
	// AllowWipe permits clearing a shared fallback database before use.
	AllowWipe bool
	// SettleInterval is how long to wait after CREATE DATABASE before
	// polling its status. Zero in tests.
	SettleInterval time.Duration

	edition string
}

func NewNegotiator(d driver.GraphDriver, requiredDatabase string, allowWipe bool) *Negotiator {
	if requiredDatabase == "" {
		requiredDatabase = "default_db"
	}
	return &Negotiator{
		Driver:            d,
		RequiredDatabase:  requiredDatabase,
		AlternateDatabase: "mosdac_db",
		AllowWipe:         allowWipe,
		SettleInterval:    3 * time.Second,
	}
}

// Establish walks the strategy tiers and retargets the driver at the first
// database that works. Only the final strategy can fail the whole bootstrap.
func (n *Negotiator) Establish(ctx context.Context) (Target, error) {
	n.probeEdition(ctx)

	strategies := []strategy{
		{name: "isolated database", run: n.isolatedDatabase},
		{name: "default database fallback", run: n.defaultDatabase},
		{name: "alternate database", run: n.alternateDatabase},
		{name: "community edition mode", run: n.communityMode},
	}

	for _, s := range strategies {
		res := s.run(ctx)
		switch res.outcome {
		case outcomeSuccess:
			res.target.Edition = n.edition
			n.Driver.SetDatabase(res.target.Database)
			log.Printf("Bootstrap: strategy '%s' succeeded, target database '%s'", s.name, displayName(res.target.Database))
			return res.target, nil
		case outcomeFatal:
			return Target{}, fmt.Errorf("bootstrap strategy '%s': %w", s.name, res.err)
		default:
			if res.err != nil {
				log.Printf("Bootstrap: strategy '%s' not applicable: %v", s.name, res.err)
			}
		}
	}

	return Target{}, fmt.Errorf("no bootstrap strategy could establish a target database; check that Neo4j is running at the configured URI and the credentials are valid")
}

// probeEdition asks the backend for its edition. Failure is not fatal; the
// most restrictive tier is assumed.
func (n *Negotiator) probeEdition(ctx context.Context) {
	n.edition = "community"
	res, err := n.Driver.ExecuteQueryOn(ctx, "", driver.ComponentsQuery, nil)
	if err != nil {
		log.Printf("Bootstrap: could not get version info, assuming Community Edition: %v", err)
		return
	}
	for _, rec := range res.Records {
		name, _ := rec.Get("name")
		if s, ok := name.(string); ok && s == "Neo4j Kernel" {
			if ed, ok := rec.Get("edition"); ok {
				if s, ok := ed.(string); ok && s != "" {
					n.edition = strings.ToLower(s)
				}
			}
			if ver, ok := rec.Get("version"); ok {
				log.Printf("Bootstrap: Neo4j %v (%s)", ver, n.edition)
			}
		}
	}
}

// isolatedDatabase checks for the required database and creates it if the
// backend supports multi-database administration.
func (n *Negotiator) isolatedDatabase(ctx context.Context) strategyResult {
	res, err := n.Driver.ExecuteQueryOn(ctx, systemDatabase, driver.ShowDatabasesQuery, nil)
	if err != nil {
		if isMultiDatabaseUnsupported(err) {
			return strategyResult{outcome: outcomeContinue, err: fmt.Errorf("multi-database features not available: %w", err)}
		}
		return strategyResult{outcome: outcomeContinue, err: err}
	}

	for _, rec := range res.Records {
		name, _ := rec.Get("name")
		if s, ok := name.(string); ok && s == n.RequiredDatabase {
			log.Printf("Bootstrap: database '%s' already exists", n.RequiredDatabase)
			return strategyResult{outcome: outcomeSuccess, target: Target{Database: n.RequiredDatabase}}
		}
	}

	log.Printf("Bootstrap: creating database '%s'...", n.RequiredDatabase)
	return n.createDatabase(ctx, n.RequiredDatabase)
}

// createDatabase tries several quoting variants; Neo4j versions differ in
// which identifiers they accept.
func (n *Negotiator) createDatabase(ctx context.Context, name string) strategyResult {
	variants := []string{
		fmt.Sprintf("CREATE DATABASE `%s`", name),
		fmt.Sprintf("CREATE DATABASE %s", name),
		fmt.Sprintf("CREATE DATABASE '%s'", name),
		fmt.Sprintf(`CREATE DATABASE "%s"`, name),
	}

	var lastErr error
	for i, q := range variants {
		log.Printf("Bootstrap: attempt %d: %s", i+1, q)
		_, err := n.Driver.ExecuteQueryOn(ctx, systemDatabase, q, nil)
		if err == nil {
			n.awaitOnline(ctx, name)
			return strategyResult{outcome: outcomeSuccess, target: Target{Database: name}}
		}
		if isAlreadyExists(err) {
			log.Printf("Bootstrap: database '%s' already exists", name)
			return strategyResult{outcome: outcomeSuccess, target: Target{Database: name}}
		}
		lastErr = err
	}

	// Name rejected or creation unsupported: hand over to the workaround tier.
	if isIllegalName(lastErr) {
		log.Printf("Bootstrap: database name '%s' rejected (illegal character); trying workarounds", name)
	}
	return strategyResult{outcome: outcomeContinue, err: fmt.Errorf("all creation attempts failed: %w", lastErr)}
}

// awaitOnline waits the settle interval then polls the new database's status.
// An unknown status without an error still counts as ready.
func (n *Negotiator) awaitOnline(ctx context.Context, name string) {
	if n.SettleInterval > 0 {
		time.Sleep(n.SettleInterval)
	}

	res, err := n.Driver.ExecuteQueryOn(ctx, systemDatabase, driver.ShowDatabasesQuery, nil)
	if err != nil {
		return
	}
	for _, rec := range res.Records {
		dbName, _ := rec.Get("name")
		if s, ok := dbName.(string); !ok || s != name {
			continue
		}
		if status, ok := rec.Get("currentStatus"); ok {
			log.Printf("Bootstrap: database '%s' status: %v", name, status)
		}
	}
}

// defaultDatabase falls back to the backend's primary database.
func (n *Negotiator) defaultDatabase(ctx context.Context) strategyResult {
	if err := n.ping(ctx, defaultFallback); err != nil {
		return strategyResult{outcome: outcomeContinue, err: err}
	}

	log.Printf("Bootstrap: using existing '%s' database as fallback", defaultFallback)
	n.maybeWipe(ctx, defaultFallback)

	return strategyResult{outcome: outcomeSuccess, target: Target{
		Database:      defaultFallback,
		UsingFallback: true,
	}}
}

// alternateDatabase creates a differently named database when the preferred
// name is rejected. Downstream tooling has to be repointed at it.
func (n *Negotiator) alternateDatabase(ctx context.Context) strategyResult {
	q := fmt.Sprintf("CREATE DATABASE %s", n.AlternateDatabase)
	if _, err := n.Driver.ExecuteQueryOn(ctx, systemDatabase, q, nil); err != nil && !isAlreadyExists(err) {
		return strategyResult{outcome: outcomeContinue, err: err}
	}

	note := fmt.Sprintf("created '%s'; reconfigure downstream tooling to use it", n.AlternateDatabase)
	log.Printf("Bootstrap: %s", note)

	return strategyResult{outcome: outcomeSuccess, target: Target{
		Database:      n.AlternateDatabase,
		UsingFallback: true,
		Note:          note,
	}}
}

// communityMode proceeds on the single available database. This is the last
// tier: if the round trip fails here the backend is simply not usable.
func (n *Negotiator) communityMode(ctx context.Context) strategyResult {
	if err := n.ping(ctx, ""); err != nil {
		return strategyResult{outcome: outcomeFatal, err: fmt.Errorf("basic connectivity check failed (is Neo4j running at the configured URI, and are the credentials correct?): %w", err)}
	}

	log.Printf("Bootstrap: using default database (Community Edition mode)")
	n.maybeWipe(ctx, "")

	return strategyResult{outcome: outcomeSuccess, target: Target{
		Database:      "",
		UsingFallback: true,
	}}
}

func (n *Negotiator) ping(ctx context.Context, database string) error {
	res, err := n.Driver.ExecuteQueryOn(ctx, database, driver.PingQuery, nil)
	if err != nil {
		return err
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("ping query returned no rows")
	}
	return nil
}

// maybeWipe clears the fallback database so stale content cannot collide with
// the load. Destructive, so it only runs when explicitly allowed.
func (n *Negotiator) maybeWipe(ctx context.Context, database string) {
	if !n.AllowWipe {
		log.Printf("Bootstrap: NOT clearing existing data in '%s' (allow_wipe is off); stale content may conflict with this load", displayName(database))
		return
	}

	log.Printf("Bootstrap: clearing ALL existing data from '%s'", displayName(database))
	if _, err := n.Driver.ExecuteQueryOn(ctx, database, driver.WipeQuery, nil); err != nil {
		log.Printf("Warning: failed to clear database '%s': %v", displayName(database), err)
		return
	}
	log.Printf("Bootstrap: database '%s' cleared", displayName(database))
}

func displayName(database string) string {
	if database == "" {
		return "default"
	}
	return database
}

func isMultiDatabaseUnsupported(err error) bool {
	return containsAny(err, "unsupported", "procedure", "not supported", "community")
}

func isAlreadyExists(err error) bool {
	return containsAny(err, "already exists")
}

func isIllegalName(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "illegal") && strings.Contains(msg, "character")
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
