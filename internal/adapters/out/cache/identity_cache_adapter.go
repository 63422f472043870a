package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// IdentityCacheAdapter mémorise les chaînes d'identité résolues, indexées
// par identifiant de dossier. Évite de rejouer les trois lectures Firestore
// pour une même patiente au sein d'une passe et entre passes rapprochées.
type IdentityCacheAdapter struct {
	cache  *lru.Cache[string, domain.PatientView]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewIdentityCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*IdentityCacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Identity cache is disabled",
		})
		return nil, nil
	}

	cache, err := lru.New[string, domain.PatientView](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &IdentityCacheAdapter{
		cache:  cache,
		logger: logger.WithModule("IdentityCacheAdapter"),
	}, nil
}

func (c *IdentityCacheAdapter) GetPatientView(ctx context.Context, dossierID string) (*domain.PatientView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view, exists := c.cache.Get(dossierID)
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"dossierId": dossierID,
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"dossierId": dossierID,
	})
	return &view, true
}

func (c *IdentityCacheAdapter) StorePatientView(ctx context.Context, dossierID string, view domain.PatientView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(dossierID, view)
}

func (c *IdentityCacheAdapter) InvalidatePatientView(ctx context.Context, dossierID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(dossierID)
}
