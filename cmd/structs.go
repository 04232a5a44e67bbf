package cmd

type Role int

const (
	Master Role = 0x00 + iota
	Tile
)

type Settings struct {
	Role    Role
	Address uint8
}
