package game

// FieldKind identifies the variant of a Field.
type FieldKind string

const (
	FieldKindPlain       FieldKind = "plain"
	FieldKindCorner      FieldKind = "corner"
	FieldKindStart       FieldKind = "start"
	FieldKindJail        FieldKind = "jail"
	FieldKindFreeParking FieldKind = "free-parking"
	FieldKindGoToJail    FieldKind = "go-to-jail"
	FieldKindProperty    FieldKind = "property"
	FieldKindRailroad    FieldKind = "railroad"
	FieldKindCompany     FieldKind = "company"
	FieldKindTax         FieldKind = "tax"
	FieldKindDrawCard    FieldKind = "draw-card"
)

// Field is a single square of the board. Which attributes are meaningful
// depends on Kind:
//
//	property: Price, Mortgage, HousePrice, Rents indexed by house count, Group
//	railroad: Price, Mortgage, Rents indexed by railroads owned - 1
//	company:  Price, Mortgage, Rents holds dice multipliers indexed by companies owned - 1
//	start:    PassMoney, VisitMoney
//	tax:      Tax
//
// A draw-card field draws from the deck with the same name as the field.
type Field struct {
	Kind       FieldKind `json:"kind"`
	Name       string    `json:"name"`
	Price      int64     `json:"price,omitempty"`
	Mortgage   int64     `json:"mortgage,omitempty"`
	HousePrice int64     `json:"housePrice,omitempty"`
	Rents      []int64   `json:"rents,omitempty"`
	Group      string    `json:"group,omitempty"`
	PassMoney  int64     `json:"passMoney,omitempty"`
	VisitMoney int64     `json:"visitMoney,omitempty"`
	Tax        int64     `json:"tax,omitempty"`
}

// Buyable reports whether the field can be owned by a player.
func (f Field) Buyable() bool {
	switch f.Kind {
	case FieldKindProperty, FieldKindRailroad, FieldKindCompany:
		return true
	default:
		return false
	}
}

// Rent returns the schedule entry at i, or 0 when i is out of range.
func (f Field) Rent(i int) int64 {
	if i < 0 || i >= len(f.Rents) {
		return 0
	}
	return f.Rents[i]
}

// MonopolyGroup is a named set of property fields sharing a rent escalation table.
type MonopolyGroup struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Fields []int  `json:"fields"`
}

func (f Field) copy() Field {
	c := f
	if f.Rents != nil {
		c.Rents = append([]int64(nil), f.Rents...)
	}
	return c
}
