package session

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/cespare/xxhash/v2"
)

// StateHash 筛选状态的哈希
// 与筛选器顺序、多选值顺序及分页参数无关
func StateHash(state models.FilterState) uint64 {
	facets := state.Facets()
	keys := make([]string, 0, len(facets))
	for k := range facets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := xxhash.New()
	for _, k := range keys {
		sel := facets[k]
		value := strings.TrimSpace(sel.Value)
		values := make([]string, 0, len(sel.Values))
		for _, v := range sel.Values {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		sort.Strings(values)

		_, _ = d.WriteString(k)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(value)
		for _, v := range values {
			_, _ = d.WriteString("\x1f")
			_, _ = d.WriteString(v)
		}
		_, _ = d.WriteString("\x1e")
	}
	return d.Sum64()
}

// ResultKey 结果缓存键
func ResultKey(version string, state models.FilterState) string {
	return version + ":" + strconv.FormatUint(StateHash(state), 16)
}
