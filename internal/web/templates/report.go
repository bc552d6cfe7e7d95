// Package templates renders the HTML pages served by the web package.
//
// Pages are templ components; run `templ generate` after editing
// report.templ.
package templates

import (
	"github.com/JonMunkholm/entities/internal/core"
	"github.com/JonMunkholm/entities/internal/entity"
)

// ReportData feeds the cross-check report page.
type ReportData struct {
	Records []entity.Entity
	Result  core.CrossCheckResult
	History []core.SaveResult
}
