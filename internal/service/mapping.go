package service

import (
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/query"
)

const dateLayout = "2006-01-02"

// conferenceField copies one ConferenceForm field onto a Conference when the
// form carries it.
type conferenceField struct {
	name  string
	apply func(f *model.ConferenceForm, c *model.Conference) error
}

// conferenceFields lists every organizer-editable field. Capacity, key and
// organizer are not listed; they are set once at creation.
var conferenceFields = []conferenceField{
	{"name", func(f *model.ConferenceForm, c *model.Conference) error {
		if f.Name == nil {
			return nil
		}
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return model.NewValidationError("name", "conference 'name' field required")
		}
		c.Name = name
		return nil
	}},
	{"description", func(f *model.ConferenceForm, c *model.Conference) error {
		if f.Description != nil {
			c.Description = strings.TrimSpace(*f.Description)
		}
		return nil
	}},
	{"city", func(f *model.ConferenceForm, c *model.Conference) error {
		if f.City != nil {
			c.City = query.NormalizeText(*f.City)
		}
		return nil
	}},
	{"topics", func(f *model.ConferenceForm, c *model.Conference) error {
		if f.Topics == nil {
			return nil
		}
		topics := make([]string, 0, len(f.Topics))
		for _, t := range f.Topics {
			if t = query.NormalizeText(t); t != "" {
				topics = append(topics, t)
			}
		}
		c.Topics = topics
		return nil
	}},
	{"startDate", func(f *model.ConferenceForm, c *model.Conference) error {
		if f.StartDate == nil {
			return nil
		}
		d, err := parseDate("startDate", *f.StartDate)
		if err != nil {
			return err
		}
		c.StartDate = d
		c.Month = monthOf(d)
		return nil
	}},
	{"endDate", func(f *model.ConferenceForm, c *model.Conference) error {
		if f.EndDate == nil {
			return nil
		}
		d, err := parseDate("endDate", *f.EndDate)
		if err != nil {
			return err
		}
		c.EndDate = d
		return nil
	}},
}

func applyConferenceForm(f *model.ConferenceForm, c *model.Conference) error {
	for _, field := range conferenceFields {
		if err := field.apply(f, c); err != nil {
			return err
		}
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return model.NewValidationError("endDate", "must not be before startDate")
	}
	return nil
}

// parseDate reads YYYY-MM-DD from the first ten characters of raw, so full
// timestamps are accepted too. An empty value clears the date.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if len(raw) < len(dateLayout) {
		return nil, model.NewValidationError(field, "%q is not a YYYY-MM-DD date", raw)
	}
	d, err := time.Parse(dateLayout, raw[:len(dateLayout)])
	if err != nil {
		return nil, model.NewValidationError(field, "%q is not a YYYY-MM-DD date", raw)
	}
	return &d, nil
}

func monthOf(d *time.Time) int {
	if d == nil {
		return 0
	}
	return int(d.Month())
}
