package payload

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// coercer rewrites a generically decoded object in place so it unmarshals
// into the typed payload, recording every field it had to touch.
type coercer struct {
	issues []string
}

func (c *coercer) notef(format string, args ...any) {
	c.issues = append(c.issues, fmt.Sprintf(format, args...))
}

func (c *coercer) dietPlan(obj map[string]any) {
	c.weekNumber(obj)
	days, ok := c.array(obj, "dailyPlans", "dailyPlans")
	if !ok {
		return
	}
	for i, d := range days {
		path := fmt.Sprintf("day %d", i+1)
		day, ok := d.(map[string]any)
		if !ok {
			c.notef("%s: expected object, got %s", path, jsonType(d))
			days[i] = map[string]any{}
			continue
		}
		for _, meal := range []string{"breakfast", "lunch", "dinner"} {
			c.meal(day, meal, path+" "+meal)
		}
		c.stringList(day, "snacks", path+" snacks")
	}
}

func (c *coercer) weekNumber(obj map[string]any) {
	switch v := obj["weekNumber"].(type) {
	case nil:
	case float64:
		if v != math.Trunc(v) {
			c.notef("weekNumber: %v is not a whole number", v)
			delete(obj, "weekNumber")
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			c.notef("weekNumber: %q is not a number", v)
			delete(obj, "weekNumber")
			return
		}
		c.notef("weekNumber: expected number, got string")
		obj["weekNumber"] = n
	default:
		c.notef("weekNumber: expected number, got %s", jsonType(v))
		delete(obj, "weekNumber")
	}
}

func (c *coercer) meal(day map[string]any, key, path string) {
	m, ok := c.object(day, key, path)
	if !ok {
		return
	}
	c.stringField(m, "title", path+" title")
	c.stringField(m, "description", path+" description")
	nutrients, ok := c.object(m, "nutrients", path+" nutrients")
	if !ok {
		return
	}
	for _, k := range slices.Sorted(maps.Keys(nutrients)) {
		c.stringField(nutrients, k, path+" nutrients."+k)
	}
}

func (c *coercer) timeline(obj map[string]any) {
	if b, ok := c.object(obj, "babyDevelopment", "babyDevelopment"); ok {
		for _, k := range []string{"size", "compareTo", "description"} {
			c.stringField(b, k, "babyDevelopment."+k)
		}
	}
	if m, ok := c.object(obj, "motherChanges", "motherChanges"); ok {
		c.stringList(m, "physical", "motherChanges.physical")
		c.stringList(m, "hormonal", "motherChanges.hormonal")
	}
	c.stringList(obj, "tipsForWeek", "tipsForWeek")
	c.stringField(obj, "importantNotes", "importantNotes")
}

// object returns obj[key] as an object. A value of any other type is dropped.
func (c *coercer) object(obj map[string]any, key, path string) (map[string]any, bool) {
	switch v := obj[key].(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	default:
		c.notef("%s: expected object, got %s", path, jsonType(v))
		delete(obj, key)
		return nil, false
	}
}

// array returns obj[key] as an array. A value of any other type is dropped.
func (c *coercer) array(obj map[string]any, key, path string) ([]any, bool) {
	switch v := obj[key].(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	default:
		c.notef("%s: expected array, got %s", path, jsonType(v))
		delete(obj, key)
		return nil, false
	}
}

// stringField turns a number or boolean at obj[key] into its text form.
func (c *coercer) stringField(obj map[string]any, key, path string) {
	v, ok := obj[key]
	if !ok || v == nil {
		return
	}
	if _, ok := v.(string); ok {
		return
	}
	if s, ok := scalarText(v); ok {
		c.notef("%s: expected string, got %s", path, jsonType(v))
		obj[key] = s
		return
	}
	c.notef("%s: expected string, got %s", path, jsonType(v))
	delete(obj, key)
}

// stringList wraps a lone scalar into a one-element list and converts scalar
// elements to text. Elements that are objects or arrays are dropped.
func (c *coercer) stringList(obj map[string]any, key, path string) {
	v, ok := obj[key]
	if !ok || v == nil {
		return
	}
	items, isArray := v.([]any)
	if !isArray {
		s, ok := scalarText(v)
		if !ok {
			c.notef("%s: expected array, got %s", path, jsonType(v))
			delete(obj, key)
			return
		}
		c.notef("%s: expected array, got %s", path, jsonType(v))
		obj[key] = []any{s}
		return
	}
	out := make([]any, 0, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		c.notef("%s[%d]: expected string, got %s", path, i, jsonType(item))
		if s, ok := scalarText(item); ok {
			out = append(out, s)
		}
	}
	obj[key] = out
}

func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
