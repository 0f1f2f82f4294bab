package model

// Row 规范化后的人员行（一行 CSV 对应一条）
// 除 Name 外所有字段允许为空字符串
type Row struct {
	Name         string `json:"name"`
	WorkEmail    string `json:"workEmail"`
	ManagerEmail string `json:"managerEmail"`
	Team         string `json:"team"`
	Location     string `json:"location"`
	PhotoURL     string `json:"photoUrl"`
	Pod          string `json:"pod"`

	// RowNo 数据行号（表头下第一行为 1，用于错误提示与合成 id）
	RowNo int `json:"rowNo"`
}

// NodeKind 图表节点类型
type NodeKind string

const (
	NodeKindPerson NodeKind = "person" // 人员节点
	NodeKindPod    NodeKind = "pod"    // Pod 分组节点（仅 pod 视图合成）
	NodeKindRoot   NodeKind = "root"   // 超级根节点（多个自然根时合成）
)

// ChartNode 图表节点（人员 / Pod / 超级根共用一个渲染结构）
// ParentID 为 nil 表示根节点；非 nil 时必然指向同一批节点中的某个 ID
type ChartNode struct {
	ID       string   `json:"id"`
	ParentID *string  `json:"parentId"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Team     string   `json:"team,omitempty"`
	Location string   `json:"location,omitempty"`
	Pod      string   `json:"pod,omitempty"`
	PhotoURL string   `json:"photoUrl,omitempty"`
}

// IsRoot 是否为根节点（无上级）
func (n *ChartNode) IsRoot() bool {
	return n.ParentID == nil
}
