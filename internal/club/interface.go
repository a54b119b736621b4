package club

// PlayerStore defines the interface for the registry of master players.
type PlayerStore interface {
	ListPlayers() ([]Player, error)
	CreatePlayer(name string) (*Player, error)
	DeletePlayer(playerID string) error
	GetPlayer(playerID string) (*Player, error)
	GetPlayers(playerIDs []string) ([]Player, error)
}
