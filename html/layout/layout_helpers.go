package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/utils"
)

type Fl = utils.Fl

const (
	ForColumns = pr.ForColumns
	ForRows    = pr.ForRows
)
