package logging

import "maps"

func cloneFields(src map[string]interface{}) map[string]interface{} {
	if len(src) == 0 {
		return make(map[string]interface{})
	}
	return maps.Clone(src)
}
