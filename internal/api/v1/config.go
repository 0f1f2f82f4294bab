package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selinongun-dev/aspora-orgchart/internal/store"
	"github.com/selinongun-dev/aspora-orgchart/internal/tree"
)

// SettingsResponse 运行配置响应
type SettingsResponse struct {
	DefaultView    string `json:"defaultView"`    // 默认视图 hierarchy/pod
	EmptyPodPolicy string `json:"emptyPodPolicy"` // 空 Pod 策略 skip/bucket
	BadgeField     string `json:"badgeField"`     // 卡片角标字段 team/location/pod
	OrgName        string `json:"orgName"`        // 超级根显示名
}

// UpdateSettingsRequest 更新配置请求
// 使用 map 允许部分更新
type UpdateSettingsRequest struct {
	Updates map[string]string `json:"updates"`
}

// GetSettings 获取运行配置
// GET /api/config
func (h *Handler) GetSettings(c *gin.Context) {
	all, err := h.store.GetAllConfig()
	if err != nil {
		h.logger.WithError(err).Error("获取配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取配置失败"})
		return
	}

	get := func(key, fallback string) string {
		if v, ok := all[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	c.JSON(http.StatusOK, SettingsResponse{
		DefaultView:    get(store.ConfigKeyDefaultView, string(tree.ViewHierarchy)),
		EmptyPodPolicy: get(store.ConfigKeyEmptyPodPolicy, string(tree.EmptyPodSkip)),
		BadgeField:     get(store.ConfigKeyBadgeField, "team"),
		OrgName:        get(store.ConfigKeyOrgName, tree.DefaultRootLabel),
	})
}

// UpdateSettings 更新运行配置
// PATCH /api/config
// 先整体校验再落库，避免改到一半失败
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	for key, value := range req.Updates {
		if err := validateSetting(key, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	for key, value := range req.Updates {
		if err := h.store.SetConfig(key, value); err != nil {
			h.logger.WithError(err).Error("更新配置失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新配置失败: " + key})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "配置更新成功"})
}

// validateSetting 校验配置键值
func validateSetting(key, value string) error {
	switch key {
	case store.ConfigKeyDefaultView:
		_, err := tree.ParseView(value)
		return err
	case store.ConfigKeyEmptyPodPolicy:
		_, err := tree.ParseEmptyPodPolicy(value)
		return err
	case store.ConfigKeyBadgeField:
		switch value {
		case "", "team", "location", "pod":
			return nil
		}
		return fmt.Errorf("未知角标字段: %s", value)
	case store.ConfigKeyOrgName:
		return nil
	}
	return fmt.Errorf("未知配置项: %s", key)
}
