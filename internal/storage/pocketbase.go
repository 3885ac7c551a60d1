package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/migrations"
	pbModels "github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/models/schema"
	"github.com/pocketbase/pocketbase/tools/migrate"

	"swissgeo/internal/models"
)

const dataSourcesCollection = "data_sources"

// PocketBaseStore keeps the registry of data sources. Only where the raw
// datasets come from is stored; the model itself stays in memory.
type PocketBaseStore struct {
	app    *pocketbase.PocketBase
	logger *slog.Logger
}

// NewPocketBaseStore opens the PocketBase data directory and makes sure the
// registry collection exists. When httpAddr is not empty the PocketBase API
// and admin UI are served on it in the background.
func NewPocketBaseStore(dataDir, httpAddr string, logger *slog.Logger) (*PocketBaseStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir:  dataDir,
		HideStartBanner: true,
	})

	if err := app.Bootstrap(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap PocketBase: %w", err)
	}
	if err := runMigrations(app); err != nil {
		return nil, fmt.Errorf("failed to migrate PocketBase: %w", err)
	}
	if err := ensureCollection(app); err != nil {
		return nil, fmt.Errorf("failed to ensure collection exists: %w", err)
	}

	if httpAddr != "" {
		go func() {
			_, err := apis.Serve(app, apis.ServeConfig{HttpAddr: httpAddr})
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("PocketBase server stopped", "error", err)
			}
		}()
	}

	return &PocketBaseStore{app: app, logger: logger}, nil
}

func runMigrations(app *pocketbase.PocketBase) error {
	runner, err := migrate.NewRunner(app.DB(), migrations.AppMigrations)
	if err != nil {
		return err
	}
	_, err = runner.Up()
	return err
}

func ensureCollection(app *pocketbase.PocketBase) error {
	if _, err := app.Dao().FindCollectionByNameOrId(dataSourcesCollection); err == nil {
		return nil
	}

	collection := &pbModels.Collection{
		Name:       dataSourcesCollection,
		Type:       pbModels.CollectionTypeBase,
		CreateRule: nil,
		Schema: schema.NewSchema(
			&schema.SchemaField{
				Name:     "name",
				Type:     schema.FieldTypeText,
				Required: true,
			},
			&schema.SchemaField{
				Name:     "link",
				Type:     schema.FieldTypeText,
				Required: true,
			},
			&schema.SchemaField{
				Name:     "kind",
				Type:     schema.FieldTypeSelect,
				Required: true,
				Options: &schema.SelectOptions{
					MaxSelect: 1,
					Values:    []string{string(models.SourceKindPolitical), string(models.SourceKindPostal)},
				},
			},
			&schema.SchemaField{
				Name:     "parse_method",
				Type:     schema.FieldTypeSelect,
				Required: true,
				Options: &schema.SelectOptions{
					MaxSelect: 1,
					Values:    []string{string(models.ParseMethodCSV), string(models.ParseMethodZIP)},
				},
			},
		),
	}

	if err := app.Dao().SaveCollection(collection); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// SaveDataSource stores a new data source and sets its ID
func (s *PocketBaseStore) SaveDataSource(src *models.DataSource) error {
	collection, err := s.app.Dao().FindCollectionByNameOrId(dataSourcesCollection)
	if err != nil {
		return fmt.Errorf("failed to find collection: %w", err)
	}

	record := pbModels.NewRecord(collection)
	setFields(record, src)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	src.ID = record.Id
	return nil
}

// GetDataSource returns the data source with the given ID
func (s *PocketBaseStore) GetDataSource(id string) (*models.DataSource, error) {
	record, err := s.app.Dao().FindRecordById(dataSourcesCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find data source: %w", err)
	}
	src := toDataSource(record)
	return &src, nil
}

// GetAllDataSources lists every registered data source
func (s *PocketBaseStore) GetAllDataSources() ([]models.DataSource, error) {
	records, err := s.app.Dao().FindRecordsByExpr(dataSourcesCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data sources: %w", err)
	}
	return toDataSources(records), nil
}

// FindDataSourcesByKind lists the data sources providing one dataset
func (s *PocketBaseStore) FindDataSourcesByKind(kind models.SourceKind) ([]models.DataSource, error) {
	records, err := s.app.Dao().FindRecordsByExpr(dataSourcesCollection, dbx.HashExp{"kind": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s data sources: %w", kind, err)
	}
	return toDataSources(records), nil
}

// UpdateDataSource replaces the fields of an existing data source
func (s *PocketBaseStore) UpdateDataSource(id string, src *models.DataSource) error {
	record, err := s.app.Dao().FindRecordById(dataSourcesCollection, id)
	if err != nil {
		return fmt.Errorf("failed to find data source: %w", err)
	}

	setFields(record, src)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	src.ID = record.Id
	return nil
}

// DeleteDataSource removes a data source
func (s *PocketBaseStore) DeleteDataSource(id string) error {
	record, err := s.app.Dao().FindRecordById(dataSourcesCollection, id)
	if err != nil {
		return fmt.Errorf("failed to find data source: %w", err)
	}

	if err := s.app.Dao().DeleteRecord(record); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// SeedDataSources stores sources when the registry is still empty. It
// returns the number of sources stored.
func (s *PocketBaseStore) SeedDataSources(sources []models.DataSource) (int, error) {
	existing, err := s.GetAllDataSources()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Debug("data source registry already populated", "count", len(existing))
		return 0, nil
	}
	for i := range sources {
		if err := s.SaveDataSource(&sources[i]); err != nil {
			return i, fmt.Errorf("failed to seed data source %s: %w", sources[i].Name, err)
		}
	}
	return len(sources), nil
}

// GetPocketBase returns the underlying PocketBase app
func (s *PocketBaseStore) GetPocketBase() *pocketbase.PocketBase {
	return s.app
}

func setFields(record *pbModels.Record, src *models.DataSource) {
	record.Set("name", src.Name)
	record.Set("link", src.Link)
	record.Set("kind", string(src.Kind))
	record.Set("parse_method", string(src.ParseMethod))
}

func toDataSource(record *pbModels.Record) models.DataSource {
	return models.DataSource{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Link:        record.GetString("link"),
		Kind:        models.SourceKind(record.GetString("kind")),
		ParseMethod: models.ParseMethod(record.GetString("parse_method")),
	}
}

func toDataSources(records []*pbModels.Record) []models.DataSource {
	out := make([]models.DataSource, len(records))
	for i, record := range records {
		out[i] = toDataSource(record)
	}
	return out
}
