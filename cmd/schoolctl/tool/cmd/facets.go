package cmd

import (
	"fmt"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/models"
)

// parseSelections 解析 key=value 形式的筛选参数，多选与关键字组以逗号分隔多个取值
func parseSelections(registry *facet.Registry, args []string) (models.FilterState, error) {
	var state models.FilterState
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return state, fmt.Errorf("筛选参数格式应为 key=value: %q", arg)
		}
		def, found := registry.Lookup(key)
		if !found {
			return state, fmt.Errorf("%w: %s", models.ErrUnknownFacet, key)
		}

		sel := models.Selection{Facet: key}
		switch def.Kind {
		case facet.KindMultiSelect, facet.KindKeywordGroup:
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					sel.Values = append(sel.Values, v)
				}
			}
		default:
			sel.Value = strings.TrimSpace(value)
		}
		state.Selections = append(state.Selections, sel)
	}
	return state, nil
}
