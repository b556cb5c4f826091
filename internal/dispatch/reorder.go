package dispatch

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/tgienger/sticky/internal/models"
)

// Reorder moves the tasks named by input to the front in the given order.
// Tasks not named keep their relative order after them. input must be a
// slice or array of ids (integers, integral floats, numeric strings or a mix
// in []any); anything else is rejected with false before any I/O. Elements
// that are not numeric or name no existing task are ignored.
func (d *Dispatcher) Reorder(ctx context.Context, input any) (bool, error) {
	ids, ok := coerceIDs(input)
	if !ok {
		d.log.Warn("rejected reorder input", "type", reflect.TypeOf(input))
		return false, nil
	}

	err := d.run(ctx, "reorder", func() {
		d.store.WriteAll(reorder(d.store.ReadAll(), ids))
	})
	return err == nil, err
}

// ReorderIDs is the typed form of Reorder.
func (d *Dispatcher) ReorderIDs(ctx context.Context, ids []int64) (bool, error) {
	return d.Reorder(ctx, ids)
}

func reorder(tasks []models.Task, ids []int64) []models.Task {
	index := make(map[int64]int, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		index[tasks[i].ID] = i
	}

	out := make([]models.Task, 0, len(tasks))
	placed := make([]bool, len(tasks))
	for _, id := range ids {
		i, ok := index[id]
		if !ok || placed[i] {
			continue
		}
		placed[i] = true
		out = append(out, tasks[i])
	}
	for i, t := range tasks {
		if !placed[i] {
			out = append(out, t)
		}
	}
	return out
}

func coerceIDs(input any) ([]int64, bool) {
	if ids, ok := input.([]int64); ok {
		return ids, true
	}

	v := reflect.ValueOf(input)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}

	ids := make([]int64, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if id, ok := coerceID(v.Index(i).Interface()); ok {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func coerceID(x any) (int64, bool) {
	switch n := x.(type) {
	case int64:
		return n, true
	case json.Number:
		return coerceID(string(n))
	case string:
		s := strings.TrimSpace(n)
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return coerceID(f)
	}

	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
			f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
