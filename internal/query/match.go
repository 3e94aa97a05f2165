package query

import (
	"cmp"
	"slices"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

// Matches reports whether c satisfies every predicate of the plan. A
// multi-valued property (topics) satisfies a predicate when any of its
// values does; an empty one satisfies nothing.
func (p *Plan) Matches(c *model.Conference) bool {
	for _, pred := range p.Predicates {
		if !pred.matches(c) {
			return false
		}
	}
	return true
}

func (pred Predicate) matches(c *model.Conference) bool {
	switch pred.Field {
	case FieldMonth:
		return compare(pred.Op, c.Month, pred.Value.(int))
	case FieldMaxAttendees:
		return compare(pred.Op, c.MaxAttendees, pred.Value.(int))
	case FieldCity:
		return compare(pred.Op, c.City, pred.Value.(string))
	case FieldTopics:
		want := pred.Value.(string)
		return slices.ContainsFunc(c.Topics, func(topic string) bool {
			return compare(pred.Op, topic, want)
		})
	case FieldName:
		return compare(pred.Op, c.Name, pred.Value.(string))
	}
	return false
}

func compare[T cmp.Ordered](op Operator, have, want T) bool {
	c := cmp.Compare(have, want)
	switch op {
	case OpEQ:
		return c == 0
	case OpNE:
		return c != 0
	case OpGT:
		return c > 0
	case OpGTEQ:
		return c >= 0
	case OpLT:
		return c < 0
	case OpLTEQ:
		return c <= 0
	}
	return false
}

// Sort orders confs by the plan's ordering. Topics sort by their smallest value.
func (p *Plan) Sort(confs []*model.Conference) {
	slices.SortStableFunc(confs, func(a, b *model.Conference) int {
		for _, f := range p.OrderBy {
			if c := compareField(f, a, b); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Key, b.Key)
	})
}

// Execute filters and orders confs in memory.
func (p *Plan) Execute(confs []*model.Conference) []*model.Conference {
	out := make([]*model.Conference, 0, len(confs))
	for _, c := range confs {
		if p.Matches(c) {
			out = append(out, c)
		}
	}
	p.Sort(out)
	return out
}

func compareField(f Field, a, b *model.Conference) int {
	switch f {
	case FieldMonth:
		return cmp.Compare(a.Month, b.Month)
	case FieldMaxAttendees:
		return cmp.Compare(a.MaxAttendees, b.MaxAttendees)
	case FieldCity:
		return cmp.Compare(a.City, b.City)
	case FieldTopics:
		return cmp.Compare(minTopic(a), minTopic(b))
	case FieldName:
		return cmp.Compare(a.Name, b.Name)
	}
	return 0
}

func minTopic(c *model.Conference) string {
	if len(c.Topics) == 0 {
		return ""
	}
	return slices.Min(c.Topics)
}
