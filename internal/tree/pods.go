package tree

import (
	"fmt"
	"strings"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
)

// EmptyPodPolicy 空 Pod 标签的处理策略
type EmptyPodPolicy string

const (
	// EmptyPodSkip 空 Pod 不分组，人员留在原汇报线上
	EmptyPodSkip EmptyPodPolicy = "skip"
	// EmptyPodBucket 空 Pod 归入 "No Pod" 分组
	EmptyPodBucket EmptyPodPolicy = "bucket"
)

// NoPodLabel bucket 策略下空 Pod 的分组名
const NoPodLabel = "No Pod"

// ParseEmptyPodPolicy 解析空 Pod 策略配置值
func ParseEmptyPodPolicy(s string) (EmptyPodPolicy, error) {
	switch EmptyPodPolicy(s) {
	case EmptyPodSkip, EmptyPodBucket:
		return EmptyPodPolicy(s), nil
	case "":
		return EmptyPodSkip, nil
	}
	return "", fmt.Errorf("未知空 Pod 策略: %s", s)
}

// podLabelFixups 历史表格中同一 Pod 的引号/大小写变体，字面收敛
var podLabelFixups = map[string]string{
	`"Growth"`:   "Growth",
	`growth`:     "Growth",
	`GROWTH`:     "Growth",
	`"Platform"`: "Platform",
	`platform`:   "Platform",
	`Infra`:      "Infrastructure",
	`infra`:      "Infrastructure",
	`INFRA`:      "Infrastructure",
}

// CanonicalPodLabel 收敛 Pod 标签变体
func CanonicalPodLabel(label string) string {
	label = strings.TrimSpace(label)
	if canonical, ok := podLabelFixups[label]; ok {
		return canonical
	}
	return label
}

// groupByPod Pod 视图：为每个非空 Pod 合成分组节点并重挂成员
// 直属主管同 Pod 的成员保留真实汇报线，不挂到分组节点下
func (b *Builder) groupByPod(nodes []*model.ChartNode) []*model.ChartNode {
	byID := make(map[string]*model.ChartNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	// 每人先算出生效分组标签，bucket 策略把空标签归入 No Pod
	labels := make(map[*model.ChartNode]string, len(nodes))
	for _, n := range nodes {
		if n.Kind != model.NodeKindPerson {
			continue
		}
		label := CanonicalPodLabel(n.Pod)
		if label == "" && b.opts.EmptyPodPolicy == EmptyPodBucket {
			label = NoPodLabel
		}
		labels[n] = label
	}

	var order []string
	members := make(map[string][]*model.ChartNode)
	for _, n := range nodes {
		label := labels[n]
		if label == "" {
			continue
		}
		if _, seen := members[label]; !seen {
			order = append(order, label)
		}
		members[label] = append(members[label], n)
	}

	out := nodes
	for _, label := range order {
		pod := &model.ChartNode{
			ID:   "pod:" + label,
			Kind: model.NodeKindPod,
			Name: label,
			Pod:  label,
		}

		// 分组节点挂在第一个被重挂成员原来的位置上：
		// 该成员原先是根则分组节点成为根，否则挂到其主管下
		parentSet := false
		for _, m := range members[label] {
			if m.ParentID != nil {
				if mgr := byID[*m.ParentID]; mgr != nil && labels[mgr] == label {
					continue
				}
			}
			if !parentSet {
				pod.ParentID = m.ParentID
				parentSet = true
			}
			id := pod.ID
			m.ParentID = &id
		}
		out = append(out, pod)
	}
	return out
}
