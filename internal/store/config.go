package store

import (
	"database/sql"
	"fmt"
)

// 运行时配置键（随库持久化，区别于启动配置文件）
const (
	ConfigKeyDefaultView    = "default_view"     // 打开页面的默认视图 hierarchy/pod
	ConfigKeyEmptyPodPolicy = "empty_pod_policy" // 空 Pod 策略 skip/bucket
	ConfigKeyBadgeField     = "badge_field"      // 卡片角标字段 team/location/pod
	ConfigKeyOrgName        = "org_name"         // 超级根显示名
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("config key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// GetConfigDefault 获取配置项，不存在时返回默认值
func (s *Store) GetConfigDefault(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return fallback, nil
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}
