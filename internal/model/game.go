package model

import "time"

type GameStatus string

const (
	GameStatusPlanned    GameStatus = "planned"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
	GameStatusCancelled  GameStatus = "cancelled"
)

type GameMode string

const (
	GameModeTeamDeathmatch GameMode = "team-deathmatch"
	GameModeDomination     GameMode = "domination"
	GameModeCapturePoint   GameMode = "capture-point"
	GameModeVIPEscort      GameMode = "vip-escort"
)

// ValidGameMode reports whether m is one of the supported modes.
func ValidGameMode(m GameMode) bool {
	switch m {
	case GameModeTeamDeathmatch, GameModeDomination, GameModeCapturePoint, GameModeVIPEscort:
		return true
	}
	return false
}

// Participant is a player registered to a specific game. Name is a snapshot
// taken at registration time and is not kept in sync with later renames.
type Participant struct {
	PlayerID     string    `json:"playerId" bson:"playerId"`
	Name         string    `json:"name" bson:"name"`
	Present      bool      `json:"present" bson:"present"`
	GroupID      string    `json:"groupId,omitempty" bson:"groupId,omitempty"`
	RegisteredAt time.Time `json:"registeredAt" bson:"registeredAt"`
}

// GameDevice is the authoritative per-game record for one device: both its
// attachment to the game and, when allocated, the group/player holding it.
type GameDevice struct {
	DeviceID         string       `json:"deviceId" bson:"deviceId"`
	Name             string       `json:"name" bson:"name"`
	Mac              string       `json:"mac" bson:"mac"`
	GroupTag         string       `json:"groupTag,omitempty" bson:"groupTag,omitempty"`
	Status           DeviceStatus `json:"status" bson:"status"`
	AssignedPlayerID string       `json:"assignedPlayerId,omitempty" bson:"assignedPlayerId,omitempty"`
	GroupID          string       `json:"groupId,omitempty" bson:"groupId,omitempty"`
	Returned         bool         `json:"returned" bson:"returned"`
	Location         string       `json:"location,omitempty" bson:"location,omitempty"`
}

type PlayerType string

const (
	PlayerTypeNormal PlayerType = "normal"
	PlayerTypeMedic  PlayerType = "medic"
	PlayerTypeEOD    PlayerType = "eod"
)

func ValidPlayerType(t PlayerType) bool {
	switch t {
	case PlayerTypeNormal, PlayerTypeMedic, PlayerTypeEOD:
		return true
	}
	return false
}

// GroupNode records a player's membership in a tactical group. Device
// allocations are not stored here; they live on the game's device ledger and
// are projected into views.
type GroupNode struct {
	PlayerID   string     `json:"playerId" bson:"playerId"`
	PlayerName string     `json:"playerName" bson:"playerName"`
	PlayerType PlayerType `json:"playerType" bson:"playerType"`
	Present    bool       `json:"present" bson:"present"`
}

// Group is a tactical group. Tag is the channel tag matched against device
// group tags to form the group's allocation pool.
type Group struct {
	ID    string      `json:"id" bson:"id"`
	Name  string      `json:"name" bson:"name"`
	Color string      `json:"color,omitempty" bson:"color,omitempty"`
	Tag   string      `json:"group,omitempty" bson:"group,omitempty"`
	Nodes []GroupNode `json:"nodes" bson:"nodes"`
}

type ResultType string

const (
	ResultKill  ResultType = "kill"
	ResultCheck ResultType = "check"
	ResultDeath ResultType = "death"
)

func ValidResultType(t ResultType) bool {
	switch t {
	case ResultKill, ResultCheck, ResultDeath:
		return true
	}
	return false
}

// GameResult is one appended match event. Results are never mutated or
// deleted once recorded.
type GameResult struct {
	ID        string     `json:"id" bson:"id"`
	Type      ResultType `json:"type" bson:"type"`
	PlayerID  string     `json:"playerId" bson:"playerId"`
	TargetID  string     `json:"targetId,omitempty" bson:"targetId,omitempty"`
	DeviceID  string     `json:"deviceId,omitempty" bson:"deviceId,omitempty"`
	Timestamp time.Time  `json:"timestamp" bson:"timestamp"`
}

// Game is the aggregate root. It is stored as a single document; Revision
// guards optimistic read-modify-write cycles over the embedded collections.
type Game struct {
	ID           string        `json:"id" bson:"_id"`
	Name         string        `json:"name" bson:"name"`
	Mode         GameMode      `json:"mode" bson:"mode"`
	Status       GameStatus    `json:"status" bson:"status"`
	FieldMapID   string        `json:"fieldMapId" bson:"fieldMapId"`
	Date         time.Time     `json:"date" bson:"date"`
	StartTime    *time.Time    `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime      *time.Time    `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Participants []Participant `json:"participants" bson:"participants"`
	Devices      []GameDevice  `json:"devices" bson:"devices"`
	Groups       []Group       `json:"groups" bson:"groups"`
	Results      []GameResult  `json:"results" bson:"results"`
	Revision     int64         `json:"-" bson:"revision"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
}

// ParticipantByPlayer returns the participant entry for playerID, or nil.
func (g *Game) ParticipantByPlayer(playerID string) *Participant {
	for i := range g.Participants {
		if g.Participants[i].PlayerID == playerID {
			return &g.Participants[i]
		}
	}
	return nil
}

// DeviceByID returns the ledger entry for deviceID, or nil.
func (g *Game) DeviceByID(deviceID string) *GameDevice {
	for i := range g.Devices {
		if g.Devices[i].DeviceID == deviceID {
			return &g.Devices[i]
		}
	}
	return nil
}

// GroupByID returns the group with the given id, or nil.
func (g *Game) GroupByID(groupID string) *Group {
	for i := range g.Groups {
		if g.Groups[i].ID == groupID {
			return &g.Groups[i]
		}
	}
	return nil
}

// NodeByPlayer returns the node for playerID within the group, or nil.
func (gr *Group) NodeByPlayer(playerID string) *GroupNode {
	for i := range gr.Nodes {
		if gr.Nodes[i].PlayerID == playerID {
			return &gr.Nodes[i]
		}
	}
	return nil
}

// AvailablePool returns the ledger entries matching the group's tag that are
// not allocated to any node, in ledger order. Allocation pops from the front.
func (g *Game) AvailablePool(gr *Group) []*GameDevice {
	var pool []*GameDevice
	for i := range g.Devices {
		d := &g.Devices[i]
		if d.GroupTag == gr.Tag && d.GroupID == "" {
			pool = append(pool, d)
		}
	}
	return pool
}

// NodeDevice is one allocated device as seen from a group node view.
type NodeDevice struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	MacAddress string `json:"macAddress"`
	IsReturned bool   `json:"isReturned"`
}

// GroupNodeView is a node together with its allocations projected from the
// device ledger.
type GroupNodeView struct {
	GroupNode
	Devices []NodeDevice `json:"devices"`
}

// GroupView is the read model for one group.
type GroupView struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color,omitempty"`
	Tag   string          `json:"group,omitempty"`
	Nodes []GroupNodeView `json:"nodes"`
}

// GroupViews projects every group with per-node device allocations derived
// from the ledger.
func (g *Game) GroupViews() []GroupView {
	views := make([]GroupView, 0, len(g.Groups))
	for gi := range g.Groups {
		gr := &g.Groups[gi]
		view := GroupView{
			ID:    gr.ID,
			Name:  gr.Name,
			Color: gr.Color,
			Tag:   gr.Tag,
			Nodes: make([]GroupNodeView, 0, len(gr.Nodes)),
		}
		for ni := range gr.Nodes {
			node := GroupNodeView{GroupNode: gr.Nodes[ni], Devices: []NodeDevice{}}
			for di := range g.Devices {
				d := &g.Devices[di]
				if d.GroupID == gr.ID && d.AssignedPlayerID == node.PlayerID {
					node.Devices = append(node.Devices, NodeDevice{
						DeviceID:   d.DeviceID,
						DeviceName: d.Name,
						MacAddress: d.Mac,
						IsReturned: d.Returned,
					})
				}
			}
			view.Nodes = append(view.Nodes, node)
		}
		views = append(views, view)
	}
	return views
}
