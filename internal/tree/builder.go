package tree

import (
	"fmt"
	"strings"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
	"github.com/selinongun-dev/aspora-orgchart/internal/parser"
)

// View 图表视图
type View string

const (
	ViewHierarchy View = "hierarchy" // 汇报线视图
	ViewPod       View = "pod"       // Pod 分组视图
)

// ParseView 解析视图参数
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewHierarchy, ViewPod:
		return View(s), nil
	case "":
		return ViewHierarchy, nil
	}
	return "", fmt.Errorf("未知视图: %s", s)
}

// SuperRootID 合成超级根的固定 id
// 人员 id 要么是邮箱要么带 name: 前缀，不会与之撞车
const SuperRootID = "root:org"

// DefaultRootLabel 超级根默认显示名
const DefaultRootLabel = "Aspora"

// Options 建树选项
type Options struct {
	View           View
	RootLabel      string // 超级根显示名，空则用 DefaultRootLabel
	EmptyPodPolicy EmptyPodPolicy
}

// Builder 图表节点构建器
// 每次请求都从规范化行重新建树，不持久化任何派生结果
type Builder struct {
	opts Options
}

// NewBuilder 创建构建器
func NewBuilder(opts Options) *Builder {
	if opts.View == "" {
		opts.View = ViewHierarchy
	}
	if opts.RootLabel == "" {
		opts.RootLabel = DefaultRootLabel
	}
	if opts.EmptyPodPolicy == "" {
		opts.EmptyPodPolicy = EmptyPodSkip
	}
	return &Builder{opts: opts}
}

// Build 把规范化行转成父链接的图表节点序列
// 步骤：分配 id → 修正主管引用 → 断开成环 → 合成超级根 → （Pod 视图）按 Pod 重挂
func (b *Builder) Build(rows []model.Row) []*model.ChartNode {
	nodes := make([]*model.ChartNode, 0, len(rows))
	ids := make(map[string]bool, len(rows))

	// id 冲突时后出现的行追加行号消歧，先出现的保持原 id，
	// 主管引用因此始终指向首次出现的那一行
	for _, row := range rows {
		id := personID(row)
		if ids[id] {
			id = fmt.Sprintf("%s:%d", id, row.RowNo)
		}
		ids[id] = true
		nodes = append(nodes, &model.ChartNode{
			ID:       id,
			Kind:     model.NodeKindPerson,
			Name:     row.Name,
			Email:    row.WorkEmail,
			Team:     row.Team,
			Location: row.Location,
			Pod:      row.Pod,
			PhotoURL: row.PhotoURL,
		})
	}

	// 主管不在表里或指向自己的一律置根
	for i, row := range rows {
		mgr := parser.NormalizeEmail(row.ManagerEmail)
		if mgr == "" || !ids[mgr] || mgr == nodes[i].ID {
			continue
		}
		nodes[i].ParentID = &mgr
	}

	breakCycles(nodes)
	nodes = b.unifyRoots(nodes)

	if b.opts.View == ViewPod {
		nodes = b.groupByPod(nodes)
	}
	return nodes
}

// breakCycles 互相汇报成环时没有任何根，图渲染不出来
// 顺着父链找环，把环内行序最靠前的人置根，保证至少一个根且父链无环
func breakCycles(nodes []*model.ChartNode) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	// 0 未访问，1 在当前路径上，2 已处理完
	state := make([]int, len(nodes))
	for i := range nodes {
		if state[i] != 0 {
			continue
		}
		var path []int
		j := i
		for {
			if state[j] == 1 {
				// 回到当前路径 → 成环，从环成员里挑行序最前的断开
				cycleStart := 0
				for k, p := range path {
					if p == j {
						cycleStart = k
						break
					}
				}
				first := j
				for _, p := range path[cycleStart:] {
					if p < first {
						first = p
					}
				}
				nodes[first].ParentID = nil
				break
			}
			if state[j] == 2 {
				break
			}
			state[j] = 1
			path = append(path, j)
			if nodes[j].ParentID == nil {
				break
			}
			j = index[*nodes[j].ParentID]
		}
		for _, p := range path {
			state[p] = 2
		}
	}
}

// unifyRoots 多于一个自然根时合成超级根并把它们挂过去
func (b *Builder) unifyRoots(nodes []*model.ChartNode) []*model.ChartNode {
	var roots []*model.ChartNode
	for _, n := range nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	if len(roots) <= 1 {
		return nodes
	}

	super := &model.ChartNode{
		ID:   SuperRootID,
		Kind: model.NodeKindRoot,
		Name: b.opts.RootLabel,
	}
	for _, r := range roots {
		id := super.ID
		r.ParentID = &id
	}
	return append([]*model.ChartNode{super}, nodes...)
}

// personID 计算人员节点 id
// 有邮箱用小写邮箱，没有则用 name:<小写姓名>:<行号> 合成
func personID(row model.Row) string {
	if email := parser.NormalizeEmail(row.WorkEmail); email != "" {
		return email
	}
	return fmt.Sprintf("name:%s:%d", strings.ToLower(strings.TrimSpace(row.Name)), row.RowNo)
}
