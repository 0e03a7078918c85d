package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"valeod/internal/models"
	"valeod/internal/providers"
)

// PostgresStorage keeps one parent row per chat in chat_mappings and one
// child row per linked model in chat_models. Child rows cascade on chat
// delete; saves replace children wholesale inside a transaction.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger providers.Logger
}

func NewPostgresStorage(ctx context.Context, databaseURL string, logger providers.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ps := &PostgresStorage{pool: pool, logger: logger}
	if err := ps.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStorage) initSchema(ctx context.Context) error {
	_, err := ps.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_mappings (
			chat_id VARCHAR(255) PRIMARY KEY,
			chat_type VARCHAR(50) NOT NULL,
			enable_daily_report BOOLEAN DEFAULT TRUE,
			enable_weekly_report BOOLEAN DEFAULT TRUE,
			enable_whale_alerts BOOLEAN DEFAULT TRUE,
			enable_chatter_report BOOLEAN DEFAULT FALSE,
			whale_alert_threshold INTEGER DEFAULT 4,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return err
	}

	_, err = ps.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_models (
			id SERIAL PRIMARY KEY,
			chat_id VARCHAR(255) NOT NULL,
			platform VARCHAR(50) NOT NULL,
			platform_account_id VARCHAR(255) NOT NULL,
			nickname VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chat_id) REFERENCES chat_mappings(chat_id) ON DELETE CASCADE,
			UNIQUE(chat_id, platform, platform_account_id)
		)`)
	return err
}

func (ps *PostgresStorage) Backend() string {
	return "postgres"
}

func (ps *PostgresStorage) Close() {
	ps.pool.Close()
}

func (ps *PostgresStorage) LoadAll(ctx context.Context) map[string]*models.ChatMapping {
	mappings := make(map[string]*models.ChatMapping)

	rows, err := ps.pool.Query(ctx, `
		SELECT chat_id, chat_type, enable_daily_report, enable_weekly_report,
		       enable_whale_alerts, enable_chatter_report, whale_alert_threshold
		FROM chat_mappings`)
	if err != nil {
		ps.logger.Errorf(providers.TypeApp, "Failed to load chat mappings: %s", err)
		return mappings
	}

	for rows.Next() {
		var chatID string
		cm := &models.ChatMapping{}
		err = rows.Scan(&chatID, &cm.ChatType, &cm.EnableDailyReport, &cm.EnableWeeklyReport,
			&cm.EnableWhaleAlerts, &cm.EnableChatterReport, &cm.WhaleAlertThreshold)
		if err != nil {
			ps.logger.Errorf(providers.TypeApp, "Failed to scan chat mapping row: %s", err)
			rows.Close()
			return map[string]*models.ChatMapping{}
		}
		mappings[chatID] = cm
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Failed to read chat mappings: %s", err)
		return map[string]*models.ChatMapping{}
	}

	modelRows, err := ps.pool.Query(ctx, `
		SELECT chat_id, platform, platform_account_id, COALESCE(nickname, '')
		FROM chat_models
		ORDER BY id`)
	if err != nil {
		ps.logger.Errorf(providers.TypeApp, "Failed to load chat models: %s", err)
		return map[string]*models.ChatMapping{}
	}
	defer modelRows.Close()

	for modelRows.Next() {
		var chatID string
		link := &models.ModelLink{}
		err = modelRows.Scan(&chatID, &link.Platform, &link.AccountID, &link.Nickname)
		if err != nil {
			ps.logger.Errorf(providers.TypeApp, "Failed to scan chat model row: %s", err)
			return map[string]*models.ChatMapping{}
		}
		if cm, ok := mappings[chatID]; ok {
			cm.Models = append(cm.Models, link)
		}
	}
	if err = modelRows.Err(); err != nil {
		ps.logger.Errorf(providers.TypeApp, "Failed to read chat models: %s", err)
		return map[string]*models.ChatMapping{}
	}

	// A parent without children is a mapping that should not exist; do not
	// surface it to callers.
	for chatID, cm := range mappings {
		if len(cm.Models) == 0 {
			delete(mappings, chatID)
		}
	}

	return mappings
}

func (ps *PostgresStorage) SaveAll(ctx context.Context, mappings map[string]*models.ChatMapping) error {
	rows, err := ps.pool.Query(ctx, `SELECT chat_id FROM chat_mappings`)
	if err != nil {
		return fmt.Errorf("failed to list existing chats: %w", err)
	}
	var existing []string
	for rows.Next() {
		var chatID string
		if err = rows.Scan(&chatID); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, chatID)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	// Full-replace: chats no longer in the set are deleted, children cascade.
	for _, chatID := range existing {
		if _, ok := mappings[chatID]; ok {
			continue
		}
		if _, err = ps.pool.Exec(ctx, `DELETE FROM chat_mappings WHERE chat_id = $1`, chatID); err != nil {
			return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
		}
		ps.logger.Infof(providers.TypeApp, "Deleted mapping for chat %s", chatID)
	}

	for chatID, cm := range mappings {
		if err = ps.saveOne(ctx, chatID, cm); err != nil {
			return fmt.Errorf("failed to save chat %s: %w", chatID, err)
		}
	}
	return nil
}

func (ps *PostgresStorage) saveOne(ctx context.Context, chatID string, cm *models.ChatMapping) error {
	tx, err := ps.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO chat_mappings
			(chat_id, chat_type, enable_daily_report, enable_weekly_report,
			 enable_whale_alerts, enable_chatter_report, whale_alert_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		ON CONFLICT (chat_id) DO UPDATE SET
			chat_type = EXCLUDED.chat_type,
			enable_daily_report = EXCLUDED.enable_daily_report,
			enable_weekly_report = EXCLUDED.enable_weekly_report,
			enable_whale_alerts = EXCLUDED.enable_whale_alerts,
			enable_chatter_report = EXCLUDED.enable_chatter_report,
			whale_alert_threshold = EXCLUDED.whale_alert_threshold,
			updated_at = CURRENT_TIMESTAMP`,
		chatID, cm.ChatType, cm.EnableDailyReport, cm.EnableWeeklyReport,
		cm.EnableWhaleAlerts, cm.EnableChatterReport, cm.WhaleAlertThreshold)
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM chat_models WHERE chat_id = $1`, chatID); err != nil {
		return err
	}

	for _, link := range cm.Models {
		var nickname interface{}
		if link.Nickname != "" {
			nickname = link.Nickname
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO chat_models (chat_id, platform, platform_account_id, nickname)
			VALUES ($1, $2, $3, $4)`,
			chatID, link.Platform, link.AccountID, nickname)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
