package sweep

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rramcim/cost"
)

// SQLiteRecorder writes sweep results into a SQLite database. Results are
// buffered and written in batches.
type SQLiteRecorder struct {
	*sql.DB
	evaluationStatement *sql.Stmt
	componentStatement  *sql.Stmt

	mu        sync.Mutex
	dbName    string
	runID     string
	pending   []Result
	batchSize int
}

// NewSQLiteRecorder creates a recorder that writes to path.sqlite3. An
// empty path picks a unique name. Buffered results are flushed when the
// program exits through atexit.
func NewSQLiteRecorder(path string) *SQLiteRecorder {
	r := &SQLiteRecorder{
		dbName:    path,
		runID:     xid.New().String(),
		batchSize: 1000,
	}

	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			log.Printf("failed to flush sweep results: %v", err)
		}
	})

	return r
}

// RunID identifies the rows written by this recorder.
func (r *SQLiteRecorder) RunID() string {
	return r.runID
}

// Filename is the database file written by the recorder.
func (r *SQLiteRecorder) Filename() string {
	return r.dbName + ".sqlite3"
}

// Init creates the database and its tables.
func (r *SQLiteRecorder) Init() error {
	if r.dbName == "" {
		r.dbName = "rramcim_sweep_" + r.runID
	}

	filename := r.Filename()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	r.DB = db

	if err := r.createTables(); err != nil {
		return err
	}

	return r.prepareStatements()
}

func (r *SQLiteRecorder) createTables() error {
	statements := []string{
		`create table evaluation
		(
			run_id          varchar(20)  not null,
			name            varchar(200) not null,
			topology        varchar(40)  not null,
			analog          integer      not null,
			area_mm2        float,
			clock_ns        float,
			peak_energy_pj  float,
			layer_energy_pj float,
			tops            float,
			topsw           float,
			topsmm2         float,
			error           text
		);`,
		`create index evaluation_name_index on evaluation (name);`,
		`create table component
		(
			run_id    varchar(20)  not null,
			name      varchar(200) not null,
			kind      varchar(20)  not null,
			component varchar(40)  not null,
			value     float        not null
		);`,
		`create index component_name_index on component (name);`,
	}

	for _, s := range statements {
		if _, err := r.Exec(s); err != nil {
			return fmt.Errorf("failed to create sweep tables: %w", err)
		}
	}

	return nil
}

func (r *SQLiteRecorder) prepareStatements() error {
	var err error

	r.evaluationStatement, err = r.Prepare(`insert into evaluation
		(run_id, name, topology, analog, area_mm2, clock_ns, peak_energy_pj,
		 layer_energy_pj, tops, topsw, topsmm2, error)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare evaluation insert: %w", err)
	}

	r.componentStatement, err = r.Prepare(`insert into component
		(run_id, name, kind, component, value) values (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare component insert: %w", err)
	}

	return nil
}

// Record buffers a result. A full buffer is flushed right away; a failing
// flush is logged and retried on the next call to Flush.
func (r *SQLiteRecorder) Record(result Result) {
	r.mu.Lock()
	r.pending = append(r.pending, result)
	full := len(r.pending) >= r.batchSize
	r.mu.Unlock()

	if full {
		if err := r.Flush(); err != nil {
			log.Printf("failed to flush sweep results: %v", err)
		}
	}
}

// Flush writes all buffered results in one transaction.
func (r *SQLiteRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 || r.DB == nil {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, result := range r.pending {
		if err := r.insert(tx, result); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sweep results: %w", err)
	}

	r.pending = nil
	return nil
}

func (r *SQLiteRecorder) insert(tx *sql.Tx, result Result) error {
	layer := sql.NullFloat64{}
	if result.LayerEnergy != nil {
		layer = sql.NullFloat64{Float64: result.LayerEnergy.Total(), Valid: true}
	}

	m := result.Metrics
	_, err := tx.Stmt(r.evaluationStatement).Exec(
		r.runID,
		result.Name,
		result.Topology,
		result.Analog,
		m.AreaMm2,
		m.ClockPeriodNs,
		m.PeakEnergyPJ,
		layer,
		m.TOPS,
		m.TOPSW,
		m.TOPSmm2,
		result.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation %s: %w", result.Name, err)
	}

	breakdowns := []struct {
		kind string
		b    cost.Breakdown
	}{
		{"area", result.Area},
		{"timing", result.Timing},
		{"peak_energy", result.PeakEnergy},
		{"layer_energy", result.LayerEnergy},
	}

	componentStatement := tx.Stmt(r.componentStatement)
	for _, bd := range breakdowns {
		if bd.b == nil {
			continue
		}
		for _, c := range cost.Components {
			_, err := componentStatement.Exec(r.runID, result.Name, bd.kind, string(c), bd.b[c])
			if err != nil {
				return fmt.Errorf("failed to insert component %s of %s: %w", c, result.Name, err)
			}
		}
	}

	return nil
}

// Close flushes pending results and closes the database.
func (r *SQLiteRecorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
