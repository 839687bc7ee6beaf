package constants

const (
	// Flanks is the number of board edges
	Flanks int = 4
	// StandardFlankSize is the number of fields on each edge of the standard board
	StandardFlankSize int = 10
	// StandardMaxHouses is the house count that represents a hotel
	StandardMaxHouses int = 5
	// StandardStartMoney is the wealth each player starts with on the standard board
	StandardStartMoney int64 = 1500
	// StandardPassMoney is paid when passing the start field
	StandardPassMoney int64 = 200
	// StandardVisitMoney is paid when landing on the start field
	StandardVisitMoney int64 = 200

	// JailStandardStay is the number of rounds a player stays in jail
	JailStandardStay int = 3

	// DiceSides is the number of sides of each die
	DiceSides int = 6
)

// PieceColors are assigned to players in order when no color is given
var PieceColors = []string{"red", "blue", "green", "yellow", "purple", "orange", "cyan", "pink"}
