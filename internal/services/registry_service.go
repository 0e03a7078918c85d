package services

import (
	"context"
	"strings"

	"valeod/internal/models"
	"valeod/internal/persistence"
	"valeod/internal/providers"
)

// RegistryServiceInterface is the chat registry: every mutation is one
// load→mutate→save cycle over the full mapping set, so a write is never
// based on state older than the operation itself. Last writer wins.
type RegistryServiceInterface interface {
	Snapshot(ctx context.Context) map[string]*models.ChatMapping
	Get(ctx context.Context, chatID string) (*models.ChatMapping, error)
	Link(ctx context.Context, chatID, platform, accountID, chatType, nickname string) (*models.ChatMapping, bool, error)
	Unlink(ctx context.Context, chatID, identifier string) (*UnlinkResult, error)
	SetFeature(ctx context.Context, chatID, setting string, enabled bool) (*models.ChatMapping, error)
	SetThreshold(ctx context.Context, chatID string, threshold int) (*models.ChatMapping, error)
}

type UnlinkResult struct {
	Removed        []*models.ModelLink
	Remaining      []*models.ModelLink
	MappingDeleted bool
}

type RegistryService struct {
	storage persistence.Storage
	logger  providers.Logger
}

func NewRegistryService(storage persistence.Storage, logger providers.Logger) RegistryServiceInterface {
	return &RegistryService{storage: storage, logger: logger}
}

// Snapshot returns a freshly loaded working copy for one request or job
// pass. Callers must not hold it across cycles.
func (rs *RegistryService) Snapshot(ctx context.Context) map[string]*models.ChatMapping {
	return rs.storage.LoadAll(ctx)
}

func (rs *RegistryService) Get(ctx context.Context, chatID string) (*models.ChatMapping, error) {
	mapping, ok := rs.storage.LoadAll(ctx)[chatID]
	if !ok {
		return nil, models.ErrNotLinked
	}
	return mapping, nil
}

func (rs *RegistryService) Link(ctx context.Context, chatID, platform, accountID, chatType, nickname string) (*models.ChatMapping, bool, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if !models.IsSupportedPlatform(platform) {
		return nil, false, models.ErrUnsupportedPlatform
	}

	mappings := rs.storage.LoadAll(ctx)
	link := &models.ModelLink{Platform: platform, AccountID: accountID, Nickname: nickname}

	mapping, exists := mappings[chatID]
	if !exists {
		// Chat-type defaults apply only on the very first link.
		mapping = models.NewChatMapping(chatType)
		mappings[chatID] = mapping
	}
	if err := mapping.AddModel(link); err != nil {
		return nil, false, err
	}

	if err := rs.storage.SaveAll(ctx, mappings); err != nil {
		rs.logger.Errorf(providers.TypeApp, "Failed to save mappings after link: %s", err)
		return nil, false, err
	}

	rs.logger.Infof(providers.TypeApp, "Linked chat %s to %s account %s (%s) as %s",
		chatID, platform, accountID, nickname, mapping.ChatType)
	return mapping, !exists, nil
}

func (rs *RegistryService) Unlink(ctx context.Context, chatID, identifier string) (*UnlinkResult, error) {
	mappings := rs.storage.LoadAll(ctx)
	mapping, ok := mappings[chatID]
	if !ok {
		return nil, models.ErrNotLinked
	}

	result := &UnlinkResult{}
	if strings.EqualFold(identifier, "all") {
		result.Removed = mapping.Models
		result.MappingDeleted = true
		delete(mappings, chatID)
	} else {
		removed, remaining, err := mapping.RemoveModel(identifier)
		if err != nil {
			return nil, err
		}
		result.Removed = []*models.ModelLink{removed}
		result.Remaining = mapping.Models
		if remaining == 0 {
			// No mapping may exist with an empty model list.
			result.MappingDeleted = true
			delete(mappings, chatID)
		}
	}

	if err := rs.storage.SaveAll(ctx, mappings); err != nil {
		rs.logger.Errorf(providers.TypeApp, "Failed to save mappings after unlink: %s", err)
		return nil, err
	}

	if result.MappingDeleted {
		rs.logger.Infof(providers.TypeApp, "Removed last model from chat %s, deleted mapping", chatID)
	} else {
		rs.logger.Infof(providers.TypeApp, "Removed model from chat %s, %d model(s) remaining",
			chatID, len(result.Remaining))
	}
	return result, nil
}

func (rs *RegistryService) SetFeature(ctx context.Context, chatID, setting string, enabled bool) (*models.ChatMapping, error) {
	return rs.mutate(ctx, chatID, func(cm *models.ChatMapping) error {
		return cm.SetFeature(setting, enabled)
	})
}

func (rs *RegistryService) SetThreshold(ctx context.Context, chatID string, threshold int) (*models.ChatMapping, error) {
	return rs.mutate(ctx, chatID, func(cm *models.ChatMapping) error {
		return cm.SetThreshold(threshold)
	})
}

func (rs *RegistryService) mutate(ctx context.Context, chatID string, fn func(*models.ChatMapping) error) (*models.ChatMapping, error) {
	mappings := rs.storage.LoadAll(ctx)
	mapping, ok := mappings[chatID]
	if !ok {
		return nil, models.ErrNotLinked
	}
	if err := fn(mapping); err != nil {
		return nil, err
	}
	if err := rs.storage.SaveAll(ctx, mappings); err != nil {
		rs.logger.Errorf(providers.TypeApp, "Failed to save mappings after config change: %s", err)
		return nil, err
	}
	return mapping, nil
}
