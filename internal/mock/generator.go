// Package mock synthesizes plausible server records for targets that
// could not be queried live. Template selection is a pure function of
// the target, so the same address and port always map to the same
// hostname, gamemode, language and tags; only cosmetic jitter fields
// (player count offset, ping, scores, password flag) vary per call.
package mock

import (
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/sampstat/sampstat/internal/models"
)

const (
	// MinPlayers and MaxPlayers bound the synthesized player count.
	MinPlayers = 10
	MaxPlayers = 1000

	// MaxPlayerList caps the number of generated player entries.
	MaxPlayerList = 25
)

// template fixes the stable identity of one synthetic server.
type template struct {
	hostname    string
	gamemode    string
	language    string
	description string
	website     string
	version     string
	tags        []string
	avgPlayers  int
	maxPlayers  int
}

var templates = []template{
	{
		hostname:    "Los Santos Roleplay | Voice | Jobs | Factions",
		gamemode:    "Roleplay",
		language:    "English",
		description: "Heavy roleplay with custom factions, housing and a player-driven economy.",
		website:     "www.ls-roleplay.com",
		version:     "0.3.7-R2",
		tags:        []string{"roleplay", "voice", "economy", "factions"},
		avgPlayers:  420,
		maxPlayers:  1000,
	},
	{
		hostname:    "Partyserver - Stunt/Race/DM/Freeroam",
		gamemode:    "Freeroam",
		language:    "English",
		description: "Classic freeroam with stunt arenas, races and weekly deathmatch events.",
		website:     "www.party-server.net",
		version:     "0.3.7",
		tags:        []string{"freeroam", "stunt", "race", "dm"},
		avgPlayers:  180,
		maxPlayers:  500,
	},
	{
		hostname:    "Call of Duty: Global Warfare | TDM",
		gamemode:    "Team Deathmatch",
		language:    "English",
		description: "Fast-paced team deathmatch with rank progression and killstreaks.",
		website:     "www.cod-gw.com",
		version:     "0.3.7-R4",
		tags:        []string{"tdm", "war", "ranks", "classes"},
		avgPlayers:  95,
		maxPlayers:  300,
	},
	{
		hostname:    "Brasil Play Vida | PT-BR | RPG",
		gamemode:    "RPG",
		language:    "Portugues",
		description: "Servidor brasileiro de RPG com empregos, casas e organizacoes.",
		website:     "www.brasilplayvida.com.br",
		version:     "0.3.7",
		tags:        []string{"rpg", "brasil", "empregos", "casas"},
		avgPlayers:  310,
		maxPlayers:  600,
	},
	{
		hostname:    "Ruski Drift Server | Drift + Derby",
		gamemode:    "Drift",
		language:    "Russian",
		description: "Drift tracks, derby arenas and tuned handling for every vehicle.",
		website:     "www.ru-drift.ru",
		version:     "0.3.7-R3",
		tags:        []string{"drift", "derby", "cars", "tuning"},
		avgPlayers:  60,
		maxPlayers:  200,
	},
	{
		hostname:    "Zombie Apocalypse Survival",
		gamemode:    "Survival",
		language:    "English",
		description: "Survive the infected city, scavenge supplies and hold the safehouse.",
		website:     "www.za-survival.com",
		version:     "0.3.7",
		tags:        []string{"zombie", "survival", "pve", "loot"},
		avgPlayers:  45,
		maxPlayers:  150,
	},
	{
		hostname:    "German Reallife | Deutsch | Fraktionen",
		gamemode:    "Reallife",
		language:    "Deutsch",
		description: "Deutsches Reallife mit Fraktionen, Firmen und eigenem Wirtschaftssystem.",
		website:     "www.german-reallife.de",
		version:     "0.3.7-R2",
		tags:        []string{"reallife", "deutsch", "fraktionen", "jobs"},
		avgPlayers:  220,
		maxPlayers:  500,
	},
	{
		hostname:    "Mini Missions | Objectives every 5 minutes",
		gamemode:    "Mini Missions",
		language:    "English",
		description: "Short rotating objectives: captures, chases, defusals and team races.",
		website:     "www.minimissions.net",
		version:     "0.3.7",
		tags:        []string{"missions", "objectives", "casual"},
		avgPlayers:  35,
		maxPlayers:  100,
	},
}

var namePool = []string{
	"Carl_Johnson", "Big_Smoke", "Sweet_Johnson", "Ryder_Wilson", "Cesar_Vialpando",
	"Wu_Zi_Mu", "Frank_Tenpenny", "Eddie_Pulaski", "Kent_Paul", "Maccer_Smith",
	"Catalina_Cruz", "Claude_Speed", "Tommy_Vercetti", "Lance_Vance", "Ken_Rosenberg",
	"Sonny_Forelli", "Ricardo_Diaz", "Phil_Cassidy", "Mike_Toreno", "Jethro_North",
	"Dwaine_South", "Zero_Marks", "OG_Loc", "Madd_Dogg", "Jizzy_Balls",
	"T_Bone_Mendez", "Kendl_Johnson", "Denise_Robinson", "Millie_Perkins", "Katie_Zhan",
	"Barbara_Schternvart", "Helena_Wankstein", "Michelle_Cannes", "The_Truth", "Salvatore_Leone",
	"Maria_Latore", "Johnny_Sindacco", "Paul_Hargreaves", "Marco_Forelli", "Andre_Deluxe",
}

// Generator produces synthetic server records. The zero-value jitter
// source is seeded from the clock; tests inject a fixed source.
type Generator struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// New creates a Generator. A nil source seeds jitter from the current
// time; template selection never depends on it.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}

	return &Generator{rng: rand.New(src)}
}

// Synthesize builds a deterministic stand-in record for a target. The
// selection key is the sum of the four address octets plus the port, so
// repeated calls and process restarts pick the same template. The
// caller must treat the result as synthetic; Source is always mock.
func (g *Generator) Synthesize(t models.Target) *models.Server {
	key := selectionKey(t)
	tpl := templates[key%len(templates)]

	players := clamp(tpl.avgPlayers+g.intn(2*tpl.avgPlayers/5+1)-tpl.avgPlayers/5, MinPlayers, MaxPlayers)
	maxPlayers := tpl.maxPlayers
	if players > maxPlayers {
		maxPlayers = players
	}

	listLen := players
	if listLen > MaxPlayerList {
		listLen = MaxPlayerList
	}

	list := make([]models.Player, listLen)
	for i := range list {
		list[i] = models.Player{
			Slot:  i + 1,
			Name:  namePool[(key+i)%len(namePool)],
			Score: g.intn(5000),
			Ping:  20 + g.intn(180),
		}
	}

	return &models.Server{
		Online:      true,
		Password:    g.intn(100) < 15,
		Players:     players,
		MaxPlayers:  maxPlayers,
		Hostname:    tpl.hostname,
		Gamemode:    tpl.gamemode,
		Language:    tpl.language,
		Description: tpl.description,
		Website:     tpl.website,
		Version:     tpl.version,
		Tags:        tpl.tags,
		PlayerList:  list,
		Ping:        15 + g.intn(120),
		Address:     t.Address,
		Port:        t.Port,
		ObservedAt:  time.Now().UTC(),
		Source:      models.SourceMock,
	}
}

// selectionKey sums the address octets and the port.
func selectionKey(t models.Target) int {
	key := t.Port

	if ip := net.ParseIP(t.Address); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			for _, octet := range v4 {
				key += int(octet)
			}
		}
	}

	return key
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rng.Intn(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
