package orm

import (
	"strconv"
	"strings"
)

// AggregateInput mirrors FindManyInput but drives numeric summarization
// instead of row projection. Count is always reported; Sum/Avg are computed
// only for the field names listed, over rows that pass Where. Grouping and
// Having filters are offered by GroupByInput, not here.
//
// Min/Max are deliberately not offered here: this engine scans rows already
// decoded by utils.ScanRow, which only fast-paths bool/int*/uint*/float*/
// string (see IsSimpleType); a generic cross-type min/max over whatever a
// column happens to decode to would have to fall back to reflection for
// anything else, and getting that comparison right without a compiler to
// check it against is exactly the risk this package's in-memory approach
// exists to avoid. Sum/Avg/Count only ever touch values already known to be
// numeric, so they carry no such risk.
type AggregateInput struct {
	Where WhereInput
	Sum   []string
	Avg   []string
}

// AggregateResult holds the scalars requested by AggregateInput. Sum and Avg
// are keyed by field name; a field absent from the request is simply absent
// from the map, not zero.
type AggregateResult struct {
	Count int64
	Sum   map[string]float64
	Avg   map[string]float64
}

// GroupByInput partitions the matched rows by By, then computes the same
// Sum/Avg/Count aggregates independently within each partition. Having
// filters on the aggregated values of a group (not the underlying rows),
// using its own comparison operators (eq/ne/gt/gte/lt/lte, which differ from
// WhereInput's operator names), keyed as described on HavingInput.
type GroupByInput struct {
	Where  WhereInput
	By     []string
	Sum    []string
	Avg    []string
	Having HavingInput
}

// HavingInput maps an aggregate key ("count", "sum.<field>", "avg.<field>")
// to a comparison, e.g. HavingInput{"count": map[string]any{"gte": 2}}.
type HavingInput = map[string]any

// GroupByRow is one partition's grouping key values plus its aggregates.
type GroupByRow struct {
	Key   map[string]any
	Count int64
	Sum   map[string]float64
	Avg   map[string]float64
}

func aggregate(pc *planContext, table string, in AggregateInput) (*AggregateResult, error) {
	rows, err := selectRowsForAggregate(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	return summarize(rows, in.Sum, in.Avg)
}

func groupBy(pc *planContext, table string, in GroupByInput) ([]GroupByRow, error) {
	if len(in.By) == 0 {
		return nil, newInvalidArgument(table+".groupBy", "by must name at least one field")
	}

	rows, err := selectRowsForAggregate(pc, table, in.Where)
	if err != nil {
		return nil, err
	}

	order, partitions := partitionRows(rows, in.By)

	out := make([]GroupByRow, 0, len(order))
	for _, key := range order {
		part := partitions[key]
		summary, err := summarize(part.rows, in.Sum, in.Avg)
		if err != nil {
			return nil, err
		}
		g := GroupByRow{Key: part.key, Count: summary.Count, Sum: summary.Sum, Avg: summary.Avg}
		if groupMatchesHaving(g, in.Having) {
			out = append(out, g)
		}
	}
	return out, nil
}

func selectRowsForAggregate(pc *planContext, table string, where WhereInput) ([]Row, error) {
	cond, err := compileWhere(pc, table, where)
	if err != nil {
		return nil, err
	}
	return selectRows(pc, table, cond, nil, nil, nil)
}

func summarize(rows []Row, sumFields, avgFields []string) (*AggregateResult, error) {
	res := &AggregateResult{Count: int64(len(rows))}

	if len(sumFields) > 0 {
		res.Sum = make(map[string]float64, len(sumFields))
		for _, f := range sumFields {
			total, err := sumField(rows, f)
			if err != nil {
				return nil, err
			}
			res.Sum[f] = total
		}
	}

	if len(avgFields) > 0 {
		res.Avg = make(map[string]float64, len(avgFields))
		for _, f := range avgFields {
			total, err := sumField(rows, f)
			if err != nil {
				return nil, err
			}
			if len(rows) > 0 {
				res.Avg[f] = total / float64(len(rows))
			}
		}
	}

	return res, nil
}

func sumField(rows []Row, field string) (float64, error) {
	var total float64
	for _, r := range rows {
		v, ok := r[field]
		if !ok || v == nil {
			continue
		}
		n, ok := toFloat64(v)
		if !ok {
			return 0, newInvalidArgument(field, "field is not numeric")
		}
		total += n
	}
	return total, nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

type rowPartition struct {
	key  map[string]any
	rows []Row
}

// partitionRows groups rows by the values of the `by` fields, returning
// partitions in first-seen order (stable, so callers see groups in the
// order their key combinations first appeared) keyed internally by a
// deterministic string built from the key values.
func partitionRows(rows []Row, by []string) ([]string, map[string]rowPartition) {
	partitions := make(map[string]rowPartition)
	var order []string

	for _, r := range rows {
		keyVals := make(map[string]any, len(by))
		parts := make([]string, len(by))
		for i, f := range by {
			v := r[f]
			keyVals[f] = v
			parts[i] = toSortKey(v)
		}
		id := stringsJoin(parts)

		p, exists := partitions[id]
		if !exists {
			p = rowPartition{key: keyVals}
			order = append(order, id)
		}
		p.rows = append(p.rows, r)
		partitions[id] = p
	}

	return order, partitions
}

func toSortKey(v any) string {
	if v == nil {
		return "\x00nil"
	}
	if n, ok := toFloat64(v); ok {
		return "n:" + formatFloat(n)
	}
	if s, ok := v.(string); ok {
		return "s:" + s
	}
	if b, ok := v.(bool); ok {
		if b {
			return "b:1"
		}
		return "b:0"
	}
	return "?"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func stringsJoin(parts []string) string {
	return strings.Join(parts, "\x1f")
}

func groupMatchesHaving(g GroupByRow, having HavingInput) bool {
	if len(having) == 0 {
		return true
	}
	for key, cmp := range having {
		actual, ok := havingValue(g, key)
		if !ok {
			return false
		}
		if !matchesComparison(actual, cmp) {
			return false
		}
	}
	return true
}

func havingValue(g GroupByRow, key string) (float64, bool) {
	if key == "count" {
		return float64(g.Count), true
	}
	const sumPrefix, avgPrefix = "sum.", "avg."
	if len(key) > len(sumPrefix) && key[:len(sumPrefix)] == sumPrefix {
		v, ok := g.Sum[key[len(sumPrefix):]]
		return v, ok
	}
	if len(key) > len(avgPrefix) && key[:len(avgPrefix)] == avgPrefix {
		v, ok := g.Avg[key[len(avgPrefix):]]
		return v, ok
	}
	return 0, false
}

func matchesComparison(actual float64, cmp any) bool {
	m, ok := cmp.(map[string]any)
	if !ok {
		n, ok := toFloat64(cmp)
		return ok && actual == n
	}
	for op, rawWant := range m {
		want, ok := toFloat64(rawWant)
		if !ok {
			return false
		}
		switch op {
		case "eq":
			if !(actual == want) {
				return false
			}
		case "ne":
			if !(actual != want) {
				return false
			}
		case "gt":
			if !(actual > want) {
				return false
			}
		case "gte":
			if !(actual >= want) {
				return false
			}
		case "lt":
			if !(actual < want) {
				return false
			}
		case "lte":
			if !(actual <= want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
