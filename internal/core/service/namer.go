package service

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Wyydra/confbridge/internal/core/domain"
)

// Namer hands out conference names of the form AdjectiveNoun1234.
// Names only need to be unique across the campaigns alive at the same time,
// so a plain PRNG is enough.
type Namer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewNamer() *Namer {
	return &Namer{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededNamer is deterministic; tests use it.
func NewSeededNamer(seed1, seed2 uint64) *Namer {
	return &Namer{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

func (n *Namer) Next() domain.ConferenceName {
	n.mu.Lock()
	adj := adjectives[n.rnd.IntN(len(adjectives))]
	noun := nouns[n.rnd.IntN(len(nouns))]
	num := n.rnd.IntN(10000)
	n.mu.Unlock()

	return domain.ConferenceName(fmt.Sprintf("%s%s%04d", adj, noun, num))
}

var adjectives = []string{
	"Amazing", "Brilliant", "Creative", "Dynamic", "Exciting", "Fantastic", "Glorious", "Harmonious",
	"Incredible", "Jubilant", "Agile", "Alert", "Ample", "Ancient", "Arctic", "Ardent",
	"Astute", "Audacious", "Autumn", "Avid", "Balmy", "Bold", "Bouncy", "Brave",
	"Breezy", "Bright", "Brisk", "Bubbly", "Calm", "Candid", "Careful", "Cheerful",
	"Chilly", "Civic", "Clever", "Cosmic", "Cozy", "Crafty", "Crimson", "Crisp",
	"Curious", "Dapper", "Daring", "Dashing", "Dazzling", "Deft", "Eager", "Earnest",
	"Elated", "Electric", "Elegant", "Eloquent", "Emerald", "Epic", "Ethereal", "Fabled",
	"Fearless", "Festive", "Fiery", "Fleet", "Fluent", "Focused", "Fond", "Frank",
	"Free", "Fresh", "Friendly", "Frosty", "Gallant", "Gentle", "Giddy", "Gifted",
	"Gleaming", "Golden", "Graceful", "Grand", "Grateful", "Green", "Happy", "Hardy",
	"Hearty", "Heroic", "Honest", "Hopeful", "Humble", "Icy", "Ideal", "Indigo",
	"Ivory", "Jade", "Jaunty", "Jolly", "Jovial", "Joyful", "Keen", "Kind",
	"Kindred", "Lavish", "Lively", "Loyal", "Lucid", "Lucky", "Lunar", "Lush",
	"Luminous", "Magnetic", "Majestic", "Mellow", "Merry", "Mighty", "Mindful", "Misty",
	"Modern", "Modest", "Mystic", "Nimble", "Noble", "Nifty", "Northern", "Novel",
	"Oaken", "Opal", "Open", "Optimal", "Orange", "Patient", "Peaceful", "Peppy",
	"Perky", "Placid", "Plucky", "Polar", "Polished", "Proud", "Prudent", "Quaint",
	"Quick", "Quiet", "Radiant", "Rapid", "Rare", "Ready", "Regal", "Resolute",
	"Robust", "Rosy", "Royal", "Ruby", "Rugged", "Rustic", "Sable", "Saffron",
	"Sage", "Scarlet", "Secret", "Serene", "Sharp", "Shining", "Silent", "Silver",
	"Simple", "Sincere", "Sleek", "Smart", "Smooth", "Snowy", "Solar", "Solid",
	"Sonic", "Sparkling", "Speedy", "Spirited", "Splendid", "Spry", "Stable", "Stately",
	"Steady", "Stellar", "Stout", "Sturdy", "Sublime", "Sunny", "Super", "Supreme",
	"Swift", "Tactful", "Tidy", "Tranquil", "Tropical", "True", "Trusty", "Twilight",
	"Upbeat", "Valiant", "Velvet", "Venerable", "Verdant", "Vibrant", "Vigilant", "Violet",
	"Vital", "Vivid", "Warm", "Wary", "Whimsical", "Wild", "Windy", "Wise",
	"Witty", "Wondrous", "Worthy", "Young", "Zany", "Zealous", "Zesty", "Amber",
	"Azure", "Beryl", "Bronze", "Cobalt", "Copper", "Coral", "Cyan", "Hazel",
	"Lilac", "Maroon", "Navy", "Olive", "Pearl", "Plum", "Rusty", "Tawny",
	"Teal", "Topaz", "Umber", "Blazing", "Boundless", "Cheery", "Classic", "Dreamy",
	"Fluffy", "Frisky", "Gusty", "Hushed", "Mirthful", "Nocturnal", "Pastel", "Quirky",
	"Roaming", "Rolling", "Soaring", "Starry", "Stormy", "Sunlit", "Thriving", "Wandering",
	"Winding", "Blissful", "Buoyant", "Courtly", "Dauntless", "Devoted", "Dutiful", "Fervent",
	"Flawless", "Gracious", "Hallowed", "Intrepid", "Lofty", "Mannerly", "Merciful", "Pristine",
	"Serious", "Tender", "Tireless", "Unique", "Upright", "Witful",
}

var nouns = []string{
	"Eagles", "Stars", "Wolves", "Tigers", "Panthers", "Dragons", "Warriors", "Titans",
	"Champions", "Rangers", "Acorns", "Anchors", "Antelopes", "Apples", "Arrows", "Aspens",
	"Atlases", "Badgers", "Bears", "Beacons", "Beavers", "Birches", "Bison", "Blazers",
	"Boulders", "Bridges", "Brooks", "Buffaloes", "Builders", "Canyons", "Captains", "Cardinals",
	"Cedars", "Cheetahs", "Cliffs", "Clouds", "Comets", "Condors", "Corals", "Cougars",
	"Coyotes", "Cranes", "Crickets", "Crowns", "Crystals", "Cyclones", "Daisies", "Deltas",
	"Dolphins", "Doves", "Dunes", "Echoes", "Elks", "Embers", "Falcons", "Ferns",
	"Finches", "Fireflies", "Flames", "Foxes", "Galaxies", "Gazelles", "Geysers", "Giants",
	"Glaciers", "Gliders", "Griffins", "Groves", "Guardians", "Gulls", "Harbors", "Hawks",
	"Herons", "Horizons", "Hornets", "Hounds", "Islands", "Jaguars", "Jays", "Jesters",
	"Journeys", "Kestrels", "Kings", "Kites", "Knights", "Koalas", "Lagoons", "Lanterns",
	"Larks", "Legends", "Leopards", "Lilies", "Lions", "Llamas", "Lotus", "Lynxes",
	"Magpies", "Mammoths", "Maples", "Mariners", "Marlins", "Meadows", "Meteors", "Mavericks",
	"Minks", "Monarchs", "Moose", "Mountains", "Mustangs", "Navigators", "Nebulas", "Nomads",
	"Oaks", "Oceans", "Orbits", "Orcas", "Orchids", "Otters", "Owls", "Paladins",
	"Pandas", "Parrots", "Peaks", "Pelicans", "Penguins", "Phoenixes", "Pilots", "Pines",
	"Pioneers", "Planets", "Pumas", "Quails", "Quasars", "Rabbits", "Ravens", "Reefs",
	"Rivers", "Robins", "Rockets", "Roses", "Sabres", "Sailors", "Salmon", "Satellites",
	"Scouts", "Seals", "Sentinels", "Sequoias", "Sharks", "Sparrows", "Sparks", "Sphinxes",
	"Spirits", "Squirrels", "Stallions", "Storms", "Summits", "Swallows", "Swans", "Thunders",
	"Tides", "Torches", "Toucans", "Towers", "Trails", "Travelers", "Turtles", "Unicorns",
	"Valleys", "Vikings", "Vipers", "Voyagers", "Walruses", "Waves", "Whales", "Willows",
	"Wizards", "Wrens", "Yaks", "Zebras", "Albatrosses", "Alpacas", "Arches", "Asteroids",
	"Auroras", "Avalanches", "Bandits", "Barons", "Bees", "Blossoms", "Bobcats", "Breezes",
	"Buzzards", "Camels", "Castles", "Caves", "Chargers", "Cobras", "Crows", "Cypresses",
	"Dingoes", "Divers", "Dreamers", "Drummers", "Ducks", "Eclipses", "Explorers", "Ferrets",
	"Fjords", "Flamingos", "Forests", "Fountains", "Frogs", "Gardens", "Gems", "Gorillas",
	"Harriers", "Hedgehogs", "Hippos", "Hummingbirds", "Ibises", "Iguanas", "Impalas", "Jackals",
	"Jets", "Kangaroos", "Kingfishers", "Lemurs", "Lighthouses", "Lobsters", "Mantas", "Mesas",
	"Minnows", "Moths", "Narwhals", "Nightingales", "Ospreys", "Oysters", "Pebbles", "Pumpkins",
	"Puffins", "Pythons", "Raccoons", "Rhinos", "Sandpipers", "Scorpions", "Seahorses", "Shepherds",
	"Skylarks", "Starlings",
}
