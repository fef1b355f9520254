package jobs

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

const SearchPath = "/vacancies"

type SearchParams struct {
	// hhparam is the query parameter name, see buildParams.
	Text        string   `hhparam:"text" mapstructure:"text"`
	Areas       []int    `hhparam:"area" mapstructure:"areas"`
	OrderBy     string   `hhparam:"order_by" mapstructure:"order_by"`
	SearchField string   `hhparam:"search_field" mapstructure:"search_field"`
	Schedules   []string `hhparam:"schedule" mapstructure:"schedules"`
	Experience  string   `hhparam:"experience" mapstructure:"experience"`
	Period      uint     `hhparam:"period" mapstructure:"period"`
	PerPage     int      `hhparam:"per_page" mapstructure:"per_page"`
}

func (c *Client) search(ctx context.Context, params SearchParams, limit int) (*Vacancies, error) {
	if params.PerPage <= 0 {
		params.PerPage = min(limit, maxPerPage)
	}

	items, found, err := c.getItems(ctx, c.APIURL+SearchPath, buildParams(&params), limit)
	if err != nil {
		return nil, err
	}

	var vacancies []*Vacancy
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &vacancies,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode vacancies: %w", err)
	}

	return &Vacancies{Items: vacancies, Found: found}, nil
}

// buildParams turns the non-zero fields of params into query values.
func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	value := reflect.ValueOf(params).Elem()

	for _, field := range reflect.VisibleFields(value.Type()) {
		key := field.Tag.Get("hhparam")
		if key == "" {
			continue
		}

		switch v := value.FieldByIndex(field.Index).Interface().(type) {
		case []int:
			for _, item := range v {
				q.Add(key, strconv.Itoa(item))
			}
		case []string:
			for _, item := range v {
				q.Add(key, item)
			}
		default:
			s := fmt.Sprintf("%v", v)
			if s != "" && s != "0" {
				q.Set(key, s)
			}
		}
	}

	return q
}
