package game

import "github.com/cbodonnell/monopoly/pkg/game/constants"

const (
	DeckChance         = "Chance"
	DeckCommunityChest = "Community Chest"
)

func property(name, group string, price, housePrice int64, rents ...int64) Field {
	return Field{
		Kind:       FieldKindProperty,
		Name:       name,
		Price:      price,
		Mortgage:   price / 2,
		HousePrice: housePrice,
		Rents:      rents,
		Group:      group,
	}
}

func railroad(name string) Field {
	return Field{Kind: FieldKindRailroad, Name: name, Price: 200, Mortgage: 100, Rents: []int64{25, 50, 100, 200}}
}

func company(name string) Field {
	return Field{Kind: FieldKindCompany, Name: name, Price: 150, Mortgage: 75, Rents: []int64{4, 10}}
}

func drawCard(deck string) Field {
	return Field{Kind: FieldKindDrawCard, Name: deck}
}

// StandardBoard returns the classic 40 field board with its Chance and
// Community Chest decks.
func StandardBoard() *Board {
	fields := []Field{
		{Kind: FieldKindStart, Name: "Go", PassMoney: constants.StandardPassMoney, VisitMoney: constants.StandardVisitMoney},
		property("Mediterranean Avenue", "brown", 60, 50, 2, 10, 30, 90, 160, 250),
		drawCard(DeckCommunityChest),
		property("Baltic Avenue", "brown", 60, 50, 4, 20, 60, 180, 320, 450),
		{Kind: FieldKindTax, Name: "Income Tax", Tax: 200},
		railroad("Reading Railroad"),
		property("Oriental Avenue", "light-blue", 100, 50, 6, 30, 90, 270, 400, 550),
		drawCard(DeckChance),
		property("Vermont Avenue", "light-blue", 100, 50, 6, 30, 90, 270, 400, 550),
		property("Connecticut Avenue", "light-blue", 120, 50, 8, 40, 100, 300, 450, 600),
		{Kind: FieldKindJail, Name: "Jail"},
		property("St. Charles Place", "pink", 140, 100, 10, 50, 150, 450, 625, 750),
		company("Electric Company"),
		property("States Avenue", "pink", 140, 100, 10, 50, 150, 450, 625, 750),
		property("Virginia Avenue", "pink", 160, 100, 12, 60, 180, 500, 700, 900),
		railroad("Pennsylvania Railroad"),
		property("St. James Place", "orange", 180, 100, 14, 70, 200, 550, 750, 950),
		drawCard(DeckCommunityChest),
		property("Tennessee Avenue", "orange", 180, 100, 14, 70, 200, 550, 750, 950),
		property("New York Avenue", "orange", 200, 100, 16, 80, 220, 600, 800, 1000),
		{Kind: FieldKindFreeParking, Name: "Free Parking"},
		property("Kentucky Avenue", "red", 220, 150, 18, 90, 250, 700, 875, 1050),
		drawCard(DeckChance),
		property("Indiana Avenue", "red", 220, 150, 18, 90, 250, 700, 875, 1050),
		property("Illinois Avenue", "red", 240, 150, 20, 100, 300, 750, 925, 1100),
		railroad("B. & O. Railroad"),
		property("Atlantic Avenue", "yellow", 260, 150, 22, 110, 330, 800, 975, 1150),
		property("Ventnor Avenue", "yellow", 260, 150, 22, 110, 330, 800, 975, 1150),
		company("Water Works"),
		property("Marvin Gardens", "yellow", 280, 150, 24, 120, 360, 850, 1025, 1200),
		{Kind: FieldKindGoToJail, Name: "Go To Jail"},
		property("Pacific Avenue", "green", 300, 200, 26, 130, 390, 900, 1100, 1275),
		property("North Carolina Avenue", "green", 300, 200, 26, 130, 390, 900, 1100, 1275),
		drawCard(DeckCommunityChest),
		property("Pennsylvania Avenue", "green", 320, 200, 28, 150, 450, 1000, 1200, 1400),
		railroad("Short Line"),
		drawCard(DeckChance),
		property("Park Place", "dark-blue", 350, 200, 35, 175, 500, 1100, 1300, 1500),
		{Kind: FieldKindTax, Name: "Luxury Tax", Tax: 100},
		property("Boardwalk", "dark-blue", 400, 200, 50, 200, 600, 1400, 1700, 2000),
	}

	chance := Deck{Name: DeckChance, Cards: []Card{
		{Kind: CardKindAdvanceTo, Text: "Advance to Boardwalk", Position: 39, MoveForward: true},
		{Kind: CardKindAdvanceTo, Text: "Advance to Go", Position: 0, MoveForward: true},
		{Kind: CardKindAdvanceTo, Text: "Advance to Illinois Avenue", Position: 24, MoveForward: true},
		{Kind: CardKindAdvanceTo, Text: "Advance to St. Charles Place", Position: 11, MoveForward: true},
		{Kind: CardKindAdvanceToRailroad, Text: "Advance to the nearest Railroad"},
		{Kind: CardKindAdvanceToRailroad, Text: "Advance to the nearest Railroad"},
		{Kind: CardKindAdvanceToUtility, Text: "Advance to the nearest Utility"},
		{Kind: CardKindGetMoney, Text: "Bank pays you dividend of 50", Money: 50},
		{Kind: CardKindGetOutOfJail, Text: "Get Out of Jail Free"},
		{Kind: CardKindGoRelative, Text: "Go back 3 spaces", Steps: -3},
		{Kind: CardKindGoToJail, Text: "Go to Jail"},
		{Kind: CardKindPayPerHouse, Text: "Make general repairs on all your property", PerHouse: 25, PerHotel: 100},
		{Kind: CardKindGetMoney, Text: "Speeding fine", Money: -15},
		{Kind: CardKindAdvanceTo, Text: "Take a trip to Reading Railroad", Position: 5, MoveForward: true},
		{Kind: CardKindGetMoneyPerPlayer, Text: "You have been elected Chairman of the Board, pay each player 50", Money: -50},
		{Kind: CardKindGetMoney, Text: "Your building loan matures", Money: 150},
	}}

	communityChest := Deck{Name: DeckCommunityChest, Cards: []Card{
		{Kind: CardKindAdvanceTo, Text: "Advance to Go", Position: 0, MoveForward: true},
		{Kind: CardKindGetMoney, Text: "Bank error in your favor", Money: 200},
		{Kind: CardKindGetMoney, Text: "Doctor's fee", Money: -50},
		{Kind: CardKindGetMoney, Text: "From sale of stock you get 50", Money: 50},
		{Kind: CardKindGetOutOfJail, Text: "Get Out of Jail Free"},
		{Kind: CardKindGoToJail, Text: "Go to Jail"},
		{Kind: CardKindGetMoney, Text: "Holiday fund matures", Money: 100},
		{Kind: CardKindGetMoney, Text: "Income tax refund", Money: 20},
		{Kind: CardKindGetMoneyPerPlayer, Text: "It is your birthday, collect 10 from every player", Money: 10},
		{Kind: CardKindGetMoney, Text: "Life insurance matures", Money: 100},
		{Kind: CardKindGetMoney, Text: "Pay hospital fees", Money: -100},
		{Kind: CardKindGetMoney, Text: "Pay school fees", Money: -50},
		{Kind: CardKindGetMoney, Text: "Receive consultancy fee", Money: 25},
		{Kind: CardKindPayPerHouse, Text: "You are assessed for street repairs", PerHouse: 40, PerHotel: 115},
		{Kind: CardKindGetMoney, Text: "You have won second prize in a beauty contest", Money: 10},
		{Kind: CardKindGetMoney, Text: "You inherit 100", Money: 100},
	}}

	return &Board{
		Fields: fields,
		Decks:  []Deck{chance, communityChest},
		Groups: []MonopolyGroup{
			{Name: "brown", Color: "#8B4513", Fields: []int{1, 3}},
			{Name: "light-blue", Color: "#AAE0FA", Fields: []int{6, 8, 9}},
			{Name: "pink", Color: "#D93A96", Fields: []int{11, 13, 14}},
			{Name: "orange", Color: "#F7941D", Fields: []int{16, 18, 19}},
			{Name: "red", Color: "#ED1B24", Fields: []int{21, 23, 24}},
			{Name: "yellow", Color: "#FEF200", Fields: []int{26, 27, 29}},
			{Name: "green", Color: "#1FB25A", Fields: []int{31, 32, 34}},
			{Name: "dark-blue", Color: "#0072BB", Fields: []int{37, 39}},
		},
		StartMoney:     constants.StandardStartMoney,
		MaxHouses:      constants.StandardMaxHouses,
		CurrencyPrefix: "$",
	}
}
