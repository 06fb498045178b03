// Package web renders the dashboard page.
package web

//go:generate templ generate

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/preston-bernstein/nhl-dashboard/internal/app/dashboard"
)

// PageData is everything the page shell needs. Error replaces the view when set.
type PageData struct {
	AppTitle string
	Sections []dashboard.SectionInfo
	Active   dashboard.Section
	View     *dashboard.View
	Error    string
}

// ChartURL is the image endpoint for the index-th chart of the view built from sel.
func ChartURL(sel dashboard.Selection, index int, format string) string {
	u := fmt.Sprintf("/charts/%d.%s", index, format)
	if q := sel.Values().Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func sectionURL(section dashboard.Section) templ.SafeURL {
	return templ.SafeURL("/dashboard?" + dashboard.Selection{Section: section}.Values().Encode())
}

var chartLabels = map[dashboard.ChartType]string{
	dashboard.ChartBar:     "Bar Chart",
	dashboard.ChartLine:    "Line Chart",
	dashboard.ChartPie:     "Pie Chart",
	dashboard.ChartScatter: "Scatter Plot",
}
