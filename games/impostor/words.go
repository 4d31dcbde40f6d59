package impostor

type wordPair struct {
	category string
	a        string
	b        string
}

var wordPairs = []wordPair{
	// Food
	{"Food", "Pizza", "Flatbread"},
	{"Food", "Sushi", "Sashimi"},
	{"Food", "Pancake", "Waffle"},
	{"Food", "Burger", "Sandwich"},
	{"Food", "Croissant", "Brioche"},
	{"Food", "Ice cream", "Frozen yogurt"},
	{"Food", "Spaghetti", "Ramen"},
	{"Food", "Taco", "Burrito"},
	// Drinks
	{"Drinks", "Coffee", "Espresso"},
	{"Drinks", "Lemonade", "Iced tea"},
	{"Drinks", "Beer", "Cider"},
	{"Drinks", "Champagne", "Prosecco"},
	{"Drinks", "Milkshake", "Smoothie"},
	// Animals
	{"Animals", "Dog", "Wolf"},
	{"Animals", "Cat", "Lynx"},
	{"Animals", "Dolphin", "Shark"},
	{"Animals", "Horse", "Zebra"},
	{"Animals", "Owl", "Eagle"},
	{"Animals", "Frog", "Toad"},
	{"Animals", "Crocodile", "Alligator"},
	{"Animals", "Rabbit", "Hamster"},
	// Places
	{"Places", "Beach", "Lake"},
	{"Places", "Library", "Bookstore"},
	{"Places", "Hospital", "Pharmacy"},
	{"Places", "Airport", "Train station"},
	{"Places", "Museum", "Gallery"},
	{"Places", "Castle", "Palace"},
	{"Places", "Cinema", "Theater"},
	{"Places", "Gym", "Swimming pool"},
	// Objects
	{"Objects", "Umbrella", "Raincoat"},
	{"Objects", "Pillow", "Blanket"},
	{"Objects", "Guitar", "Violin"},
	{"Objects", "Candle", "Lantern"},
	{"Objects", "Mirror", "Window"},
	{"Objects", "Backpack", "Suitcase"},
	{"Objects", "Pen", "Pencil"},
	{"Objects", "Clock", "Watch"},
	// Jobs
	{"Jobs", "Doctor", "Nurse"},
	{"Jobs", "Pilot", "Astronaut"},
	{"Jobs", "Chef", "Baker"},
	{"Jobs", "Teacher", "Professor"},
	{"Jobs", "Firefighter", "Police officer"},
	{"Jobs", "Painter", "Sculptor"},
	// Sports
	{"Sports", "Football", "Rugby"},
	{"Sports", "Tennis", "Badminton"},
	{"Sports", "Skiing", "Snowboarding"},
	{"Sports", "Boxing", "Wrestling"},
	{"Sports", "Basketball", "Volleyball"},
	{"Sports", "Surfing", "Sailing"},
	// Nature
	{"Nature", "Volcano", "Mountain"},
	{"Nature", "River", "Waterfall"},
	{"Nature", "Forest", "Jungle"},
	{"Nature", "Desert", "Savanna"},
	{"Nature", "Rainbow", "Aurora"},
	{"Nature", "Snow", "Hail"},
	// Holidays
	{"Holidays", "Christmas", "Thanksgiving"},
	{"Holidays", "Halloween", "Carnival"},
	{"Holidays", "Birthday", "Wedding"},
	{"Holidays", "Camping", "Picnic"},
	// Transport
	{"Transport", "Bicycle", "Scooter"},
	{"Transport", "Bus", "Tram"},
	{"Transport", "Helicopter", "Airplane"},
	{"Transport", "Submarine", "Ship"},
	{"Transport", "Taxi", "Limousine"},
}
