package records

import (
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/idgen"
	"github.com/ecoparque/residuos-go/internal/observability"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
	"github.com/ecoparque/residuos-go/internal/validate"
)

const statsCacheTTL = 30 * time.Second

// Service implements Interface over the table store. Mutations on the
// same entity are serialized with a per-kind mutex; cross-process
// coordination is out of scope.
type Service struct {
	settings *conf.Settings
	store    *tablestore.Store
	backups  *backup.Manager
	evidence *evidence.Store
	metrics  *observability.Metrics
	logger   *slog.Logger
	cache    *gocache.Cache
	locks    map[schema.Kind]*sync.Mutex

	now func() time.Time
}

// NewService wires the record service. metrics may be nil when no
// registry is running (CLI one-shot commands).
func NewService(settings *conf.Settings, store *tablestore.Store, backups *backup.Manager,
	ev *evidence.Store, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	locks := make(map[schema.Kind]*sync.Mutex, len(schema.AllKinds()))
	for _, kind := range schema.AllKinds() {
		locks[kind] = &sync.Mutex{}
	}
	return &Service{
		settings: settings,
		store:    store,
		backups:  backups,
		evidence: ev,
		metrics:  metrics,
		logger:   logger.With("service", "records"),
		cache:    gocache.New(statsCacheTTL, time.Minute),
		locks:    locks,
		now:      time.Now,
	}
}

// Create validates the submitted fields, allocates the next id and
// appends the row. Returns the new id.
func (s *Service) Create(kind schema.Kind, fields map[string]string) (string, error) {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return "", err
	}
	start := s.now()
	defer s.observe(kind, "create", start)

	s.locks[kind].Lock()
	defer s.locks[kind].Unlock()

	table, err := s.store.Load(kind)
	if err != nil {
		s.count(kind, "create", "error")
		return "", err
	}

	if err := validate.Required(fields, desc); err != nil {
		s.countValidation(kind, err)
		return "", err
	}
	if err := s.validateFields(fields, desc); err != nil {
		s.countValidation(kind, err)
		return "", err
	}

	id := idgen.Next(desc.IDPrefix, desc.IDWidth, table.IDs())
	row := s.newRow(desc, fields, id)

	s.snapshot(kind)
	table.Append(row)
	if err := s.store.Save(kind, table); err != nil {
		s.count(kind, "create", "error")
		return "", err
	}

	s.afterWrite(kind, table.Len())
	s.count(kind, "create", "success")
	s.logger.Info("record created", "entity", kind, "id", id)
	return id, nil
}

// Get returns a copy of the row with the given id.
func (s *Service) Get(kind schema.Kind, id string) (schema.Row, error) {
	table, err := s.store.Load(kind)
	if err != nil {
		return nil, err
	}
	i := table.Find(id)
	if i < 0 {
		return nil, s.notFound(kind, id)
	}
	return table.Rows[i].Clone(), nil
}

// Update overwrites the submitted fields of an existing row. The id
// column cannot be changed.
func (s *Service) Update(kind schema.Kind, id string, partial map[string]string) error {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return err
	}
	start := s.now()
	defer s.observe(kind, "update", start)

	s.locks[kind].Lock()
	defer s.locks[kind].Unlock()

	table, err := s.store.Load(kind)
	if err != nil {
		s.count(kind, "update", "error")
		return err
	}
	i := table.Find(id)
	if i < 0 {
		s.count(kind, "update", "error")
		return s.notFound(kind, id)
	}

	if newID, ok := partial[schema.ColumnID]; ok && newID != id {
		err := errors.Newf("the %s column is immutable", schema.ColumnID).
			Component("records").
			Category(errors.CategoryValidation).
			Context("entity", string(kind)).
			Context("id", id).
			Build()
		s.count(kind, "update", "error")
		return err
	}
	if err := s.validateFields(partial, desc); err != nil {
		s.countValidation(kind, err)
		return err
	}

	s.snapshot(kind)
	for col, value := range partial {
		if col == schema.ColumnID {
			continue
		}
		table.Rows[i][col] = value
	}
	if err := s.store.Save(kind, table); err != nil {
		s.count(kind, "update", "error")
		return err
	}

	s.afterWrite(kind, table.Len())
	s.count(kind, "update", "success")
	s.logger.Info("record updated", "entity", kind, "id", id, "columns", len(partial))
	return nil
}

// Delete removes a row. An empty mode falls back to the configured
// per-entity default. Soft delete marks the row Archivado; on tables
// without a state column it degrades to a hard delete.
func (s *Service) Delete(kind schema.Kind, id, mode string) error {
	if _, err := schema.Lookup(kind); err != nil {
		return err
	}
	start := s.now()
	defer s.observe(kind, "delete", start)

	s.locks[kind].Lock()
	defer s.locks[kind].Unlock()

	table, err := s.store.Load(kind)
	if err != nil {
		s.count(kind, "delete", "error")
		return err
	}
	i := table.Find(id)
	if i < 0 {
		s.count(kind, "delete", "error")
		return s.notFound(kind, id)
	}

	if mode == "" {
		mode = s.settings.DeleteMode(string(kind))
	}
	if mode == conf.DeleteModeSoft && !table.HasColumn(schema.ColumnEstado) {
		s.logger.Warn("table has no state column, deleting row instead",
			"entity", kind, "id", id)
		mode = conf.DeleteModeHard
	}

	s.snapshot(kind)
	switch mode {
	case conf.DeleteModeSoft:
		table.Rows[i][schema.ColumnEstado] = schema.EstadoArchivado
	case conf.DeleteModeHard:
		s.removeEvidence(table.Rows[i]["ruta_imagen"])
		table.RemoveAt(i)
	default:
		s.count(kind, "delete", "error")
		return errors.Newf("unknown delete mode %q", mode).
			Component("records").
			Category(errors.CategoryValidation).
			Context("entity", string(kind)).
			Build()
	}
	if err := s.store.Save(kind, table); err != nil {
		s.count(kind, "delete", "error")
		return err
	}

	s.afterWrite(kind, table.Len())
	s.count(kind, "delete", "success")
	s.logger.Info("record deleted", "entity", kind, "id", id, "mode", mode)
	return nil
}

// AttachEvidence validates an image payload, stores it and records its
// path on the row.
func (s *Service) AttachEvidence(kind schema.Kind, id, filename string, data []byte) (string, error) {
	if s.evidence == nil {
		return "", errors.NewStd("evidence store not configured")
	}
	if err := validate.Upload(filename, data, s.settings.MaxUploadBytes(),
		s.settings.Validation.AllowedExtensions); err != nil {
		s.countValidation(kind, err)
		return "", err
	}
	// Resolve the record before writing the blob so an unknown id does
	// not leave an orphaned file behind.
	if _, err := s.Get(kind, id); err != nil {
		return "", err
	}
	path, err := s.evidence.Save(id, filename, data)
	if err != nil {
		return "", err
	}
	if err := s.Update(kind, id, map[string]string{"ruta_imagen": path}); err != nil {
		s.removeEvidence(path)
		return "", err
	}
	return path, nil
}

// validateFields runs the field validators with the configured bounds.
func (s *Service) validateFields(fields map[string]string, desc *schema.Descriptor) error {
	return validate.Fields(fields, desc,
		s.settings.Validation.WeightMinKg, s.settings.Validation.WeightMaxKg, s.now())
}

// newRow builds a full row from submitted fields and descriptor defaults.
func (s *Service) newRow(desc *schema.Descriptor, fields map[string]string, id string) schema.Row {
	row := make(schema.Row, len(desc.Columns))
	for _, col := range desc.Columns {
		if v, ok := fields[col.Name]; ok {
			row[col.Name] = v
			continue
		}
		switch {
		case col.NowDefault:
			row[col.Name] = s.now().Format(schema.DateTimeLayout)
		default:
			row[col.Name] = col.Default
		}
	}
	row[schema.ColumnID] = id
	return row
}

// snapshot copies the live table aside. Failures are logged, never fatal.
func (s *Service) snapshot(kind schema.Kind) {
	if s.backups == nil || !s.backups.Enabled() {
		return
	}
	info, err := s.backups.Snapshot(kind)
	if err != nil {
		s.logger.Error("table snapshot failed", "entity", kind, "error", err)
		if s.metrics != nil {
			s.metrics.Backup.RecordSnapshot(string(kind), "error")
		}
		return
	}
	if s.metrics != nil {
		s.metrics.Backup.RecordSnapshot(string(kind), "success")
		if info != nil {
			s.metrics.Backup.ObserveSnapshotSize(string(kind), info.Size)
		}
	}
}

func (s *Service) removeEvidence(path string) {
	if path == "" || s.evidence == nil {
		return
	}
	if err := s.evidence.Remove(path); err != nil {
		s.logger.Error("evidence removal failed", "path", path, "error", err)
	}
}

// afterWrite invalidates cached aggregates and refreshes the row gauge.
func (s *Service) afterWrite(kind schema.Kind, rows int) {
	s.cache.Delete(statsKey(kind))
	s.cache.Delete(summaryKey)
	if s.metrics != nil {
		s.metrics.Records.SetTableRows(string(kind), rows)
	}
}

func (s *Service) count(kind schema.Kind, op, status string) {
	if s.metrics != nil {
		s.metrics.Records.RecordOperation(string(kind), op, status)
	}
}

func (s *Service) countValidation(kind schema.Kind, err error) {
	if s.metrics == nil {
		return
	}
	field := "unknown"
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		if f, ok := ee.Context["field"].(string); ok && f != "" {
			field = f
		}
	}
	s.metrics.Records.RecordValidationFailure(string(kind), field)
}

func (s *Service) observe(kind schema.Kind, op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.Records.ObserveOperationDuration(string(kind), op, time.Since(start).Seconds())
	}
}

func (s *Service) notFound(kind schema.Kind, id string) error {
	return errors.New(ErrNotFound).
		Component("records").
		Category(errors.CategoryNotFound).
		Context("entity", string(kind)).
		Context("id", id).
		Build()
}
