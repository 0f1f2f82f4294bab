package parser

import "sort"

// headerAliases 各逻辑字段接受的表头别名（中英文混排导出都见过）
// 同一字段的别名按优先级排列，匹配时先规范化再比较
var headerAliases = map[Field][]string{
	FieldName: {
		"Name", "Full Name", "Employee Name",
		"姓名", "名字",
	},
	FieldWorkEmail: {
		"Work Email", "Email", "Work E-mail", "Email Address",
		"工作邮箱", "邮箱", "电子邮箱",
	},
	FieldManagerEmail: {
		"Manager Email", "Manager", "Reports To", "Manager E-mail",
		"主管邮箱", "直属主管", "上级邮箱",
	},
	FieldTeam: {
		"Team", "Department",
		"团队", "部门",
	},
	FieldLocation: {
		"Location", "Office", "City",
		"办公地点", "城市", "地点",
	},
	FieldPhotoURL: {
		"Photo URL", "Photo", "Image", "Avatar",
		"头像", "照片",
	},
	FieldPod: {
		"Pod", "Squad",
		"小组",
	},
}

// HeaderMapper 表头映射器
// 把上传表格的任意别名表头映射到固定逻辑字段
type HeaderMapper struct {
	required []Field
	// aliasIndex 规范化别名 → (字段, 别名优先级)
	aliasIndex map[string]aliasSlot
}

type aliasSlot struct {
	field Field
	rank  int
}

// NewHeaderMapper 创建表头映射器（默认必填集）
func NewHeaderMapper() *HeaderMapper {
	return NewHeaderMapperWithRequired(DefaultRequiredFields())
}

// NewHeaderMapperWithRequired 创建表头映射器并指定必填字段集
func NewHeaderMapperWithRequired(required []Field) *HeaderMapper {
	m := &HeaderMapper{
		required:   required,
		aliasIndex: make(map[string]aliasSlot),
	}
	for field, aliases := range headerAliases {
		for rank, alias := range aliases {
			key := NormalizeHeaderName(alias)
			if _, exists := m.aliasIndex[key]; exists {
				continue
			}
			m.aliasIndex[key] = aliasSlot{field: field, rank: rank}
		}
	}
	return m
}

// Map 将表头行映射为 字段→候选列 表
// 同一字段命中多列时按别名优先级排序，优先级相同按列序
// 缺失的必填字段以规范列名返回
func (m *HeaderMapper) Map(headers []string) (FieldColumns, []string) {
	type candidate struct {
		col  int
		rank int
	}
	found := make(map[Field][]candidate)

	for idx, raw := range headers {
		key := NormalizeHeaderName(raw)
		if key == "" {
			continue
		}
		slot, ok := m.aliasIndex[key]
		if !ok {
			continue
		}
		found[slot.field] = append(found[slot.field], candidate{col: idx, rank: slot.rank})
	}

	columns := make(FieldColumns, len(found))
	for field, cands := range found {
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].rank != cands[j].rank {
				return cands[i].rank < cands[j].rank
			}
			return cands[i].col < cands[j].col
		})
		cols := make([]int, len(cands))
		for i, c := range cands {
			cols[i] = c.col
		}
		columns[field] = cols
	}

	var missing []string
	for _, field := range m.required {
		if len(columns[field]) == 0 {
			missing = append(missing, field.Label())
		}
	}
	return columns, missing
}
