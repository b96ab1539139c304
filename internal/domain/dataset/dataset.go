package dataset

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Dataset is the dataset aggregate (immutable value object). It owns
// the server-side configuration that seeds the retrieval pipeline.
type Dataset struct {
	id             uuid.UUID
	name           string
	organizationID uuid.UUID
	trackingID     string
	configuration  ServerConfiguration
	createdAt      int64
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("dataset name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("dataset name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Dataset with a fresh id.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. TrackingID is optional.
func New(name string, organizationID uuid.UUID, trackingID string, cfg ServerConfiguration) (Dataset, error) {
	if err := validateName(name); err != nil {
		return Dataset{}, err
	}
	if organizationID == uuid.Nil {
		return Dataset{}, fmt.Errorf("organization id is required")
	}
	if len(trackingID) > 128 {
		return Dataset{}, fmt.Errorf("tracking id too long (max 128)")
	}

	return Dataset{
		id:             uuid.New(),
		name:           name,
		organizationID: organizationID,
		trackingID:     trackingID,
		configuration:  cfg,
		createdAt:      time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a Dataset without validation (storage hydration).
func Reconstruct(
	id uuid.UUID, name string, organizationID uuid.UUID, trackingID string,
	cfg ServerConfiguration, createdAt int64,
) Dataset {
	return Dataset{
		id:             id,
		name:           name,
		organizationID: organizationID,
		trackingID:     trackingID,
		configuration:  cfg,
		createdAt:      createdAt,
	}
}

// ID returns the dataset id.
func (d Dataset) ID() uuid.UUID { return d.id }

// Name returns the dataset name.
func (d Dataset) Name() string { return d.name }

// OrganizationID returns the owning organization id.
func (d Dataset) OrganizationID() uuid.UUID { return d.organizationID }

// TrackingID returns the caller-supplied external identifier.
func (d Dataset) TrackingID() string { return d.trackingID }

// Configuration returns the server-side configuration.
func (d Dataset) Configuration() ServerConfiguration { return d.configuration }

// CreatedAt returns the creation timestamp (unix millis).
func (d Dataset) CreatedAt() int64 { return d.createdAt }

// WithConfiguration returns a copy of the dataset carrying cfg.
func (d Dataset) WithConfiguration(cfg ServerConfiguration) Dataset {
	d.configuration = cfg
	return d
}
