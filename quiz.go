// Quizbox trivia game
//
// A host authenticates with the shared admin secret and receives a room plus
// a join URL (and QR code) for participants. Players register with a name and
// optional table number, get a unique emoji avatar while the pool lasts, and
// answer a fixed sequence of multiple-choice questions. Questions advance on
// a timer, on explicit host request, or (optionally) once half the players
// have answered, whichever comes first. Correct answers score a flat base
// plus a speed bonus; the final leaderboard is broadcast when the last
// question ends or the host ends the game early.
//
// Features:
// - WebSockets per room: /quiz/:roomid and /quiz/:roomid/ws
// - Host identity bound to the connection that presents the admin secret
// - Question payloads withhold the answer index from everyone but the host
// - Duplicate and late answers are dropped silently, never scored twice
// - Host-only live per-choice answer statistics
// - Rooms swept after a configurable TTL; fresh rooms are reused on re-auth
// - Stale advance timers are invalidated by a per-session generation counter
// - In-browser QR button to share the room, backed by go-qrcode

package main

import (
	"crypto/subtle"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type roomState string

const (
	stateWaiting  roomState = "waiting"
	stateActive   roomState = "active"
	stateFinished roomState = "finished"
)

// Player holds the data we store server-side for a registered participant.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Table     string    `json:"table,omitempty"`
	Character string    `json:"character"`
	Score     int       `json:"score"`
	JoinedAt  time.Time `json:"joinedAt"`

	connID  string
	answers []*Answer // indexed by question, nil until answered
}

func (p *Player) answered() int {
	n := 0
	for _, a := range p.answers {
		if a != nil {
			n++
		}
	}
	return n
}

// snapshot returns a detached copy for outbound messages. Writer goroutines
// marshal payloads outside the hub lock, so they must never see the live
// Player the handlers keep mutating.
func (p *Player) snapshot() Player {
	return Player{
		ID:        p.ID,
		Name:      p.Name,
		Table:     p.Table,
		Character: p.Character,
		Score:     p.Score,
		JoinedAt:  p.JoinedAt,
	}
}

// Answer records a single submission. At most one exists per player and
// question; a Room owns all Answers for its questions.
type Answer struct {
	PlayerID      string
	QuestionIndex int
	Choice        int
	Correct       bool
	TimeRemaining float64
	SubmittedAt   time.Time
}

// Messages coming from clients
type ClientMessage struct {
	Type          string  `json:"type"`                    // "host-authenticate", "player-register", "start-game", "submit-answer", "request-advance", "end-game", "get-game-state"
	Secret        string  `json:"secret,omitempty"`        // host-authenticate
	Name          string  `json:"name,omitempty"`          // player-register
	Table         string  `json:"table,omitempty"`         // player-register
	QuestionIndex *int    `json:"questionIndex,omitempty"` // submit-answer
	ChosenIndex   *int    `json:"chosenIndex,omitempty"`   // submit-answer
	TimeRemaining float64 `json:"timeRemaining,omitempty"` // submit-answer, seconds left on the client clock
}

// Messages sent to clients
type HostAuthenticatedMessage struct {
	Type    string `json:"type"` // "host-authenticated"
	RoomID  string `json:"roomId"`
	JoinURL string `json:"joinUrl"`
}

type HostAuthFailedMessage struct {
	Type   string `json:"type"` // "host-auth-failed"
	Reason string `json:"reason"`
}

type RegistrationSuccessMessage struct {
	Type           string `json:"type"` // "registration-success"
	Player         Player `json:"player"`
	TotalQuestions int    `json:"totalQuestions"`
}

type RegistrationFailedMessage struct {
	Type   string `json:"type"` // "registration-failed"
	Reason string `json:"reason"`
}

// PlayerUpdateMessage announces a joining or leaving player. Type is
// "player-joined", "host-player-joined", or "player-left".
type PlayerUpdateMessage struct {
	Type         string `json:"type"`
	Player       Player `json:"player"`
	TotalPlayers int    `json:"totalPlayers"`
}

// QuestionMessage carries a question to participants, answer index withheld.
// Type is "game-started" or "next-question".
type QuestionMessage struct {
	Type           string       `json:"type"`
	QuestionIndex  int          `json:"questionIndex"`
	Question       QuestionView `json:"question"`
	TimeLimit      float64      `json:"timeLimit"` // seconds
	TotalQuestions int          `json:"totalQuestions"`
}

// HostQuestionMessage is the host-only variant including the answer index.
// Type is "host-game-started" or "host-next-question".
type HostQuestionMessage struct {
	Type           string   `json:"type"`
	QuestionIndex  int      `json:"questionIndex"`
	Question       Question `json:"question"`
	TimeLimit      float64  `json:"timeLimit"`
	TotalQuestions int      `json:"totalQuestions"`
}

// AnswerResultMessage is unicast to the submitting player.
type AnswerResultMessage struct {
	Type               string `json:"type"` // "answer-result"
	Correct            bool   `json:"isCorrect"`
	CorrectChoiceIndex int    `json:"correctChoiceIndex"`
	NewScore           int    `json:"newScore"`
}

// AnswerStatsMessage is sent only to the host after each submission.
type AnswerStatsMessage struct {
	Type            string `json:"type"` // "host-answer-stats"
	QuestionIndex   int    `json:"questionIndex"`
	PerChoiceCounts []int  `json:"perChoiceCounts"`
	AnsweredCount   int    `json:"answeredCount"`
	TotalPlayers    int    `json:"totalPlayers"`
}

type GameEndedMessage struct {
	Type        string             `json:"type"` // "game-ended"
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// ErrorMessage is unicast for authorization and lookup failures.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// GameStateMessage is the unicast reply to get-game-state, and the snapshot
// sent to every connection when it first attaches.
type GameStateMessage struct {
	Type           string             `json:"type"` // "game-state"
	State          string             `json:"state"`
	QuestionIndex  int                `json:"questionIndex"`
	TotalQuestions int                `json:"totalQuestions"`
	TimeLimit      float64            `json:"timeLimit"`
	TimeRemaining  float64            `json:"timeRemaining,omitempty"`
	Players        []Player           `json:"players"`
	Question       *QuestionView      `json:"question,omitempty"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard,omitempty"`
}

type Client struct {
	conn    *websocket.Conn
	send    chan any
	connID  string
	joinURL string
}

type inboundMessage struct {
	client *Client
	msg    ClientMessage
}

// Hub is a single room: its players, answer ledgers, and session state
// machine. One goroutine consumes the channels; the mutex exists because
// scheduled advance timers and the reaper also enter.
type Hub struct {
	id   string
	cfg  *Config
	bank []Question

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	inbound  chan inboundMessage
	done     chan struct{}

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time

	state             roomState
	generation        int
	current           int
	questionStartedAt time.Time
	hostConnID        string

	players    map[string]*Player   // keyed by connection ID
	answers    []map[string]*Answer // per question, keyed by connection ID
	characters map[string]bool      // avatars currently assigned

	closed bool
}

func newHub(cfg *Config, roomID string, bank []Question) *Hub {
	now := time.Now()
	return &Hub{
		id:         roomID,
		cfg:        cfg,
		bank:       bank,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		inbound:    make(chan inboundMessage),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		state:      stateWaiting,
		players:    make(map[string]*Player),
		answers:    make([]map[string]*Answer, len(bank)),
		characters: make(map[string]bool),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.handleConnect(c)

		case c := <-h.unreg:
			h.handleDisconnect(c)

		case in := <-h.inbound:
			h.dispatch(in.client, in.msg)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "host-authenticate":
		h.handleAuth(c, msg.Secret)
	case "player-register":
		h.handleJoin(c, msg.Name, msg.Table)
	case "start-game":
		h.handleStart(c)
	case "submit-answer":
		if msg.QuestionIndex == nil || msg.ChosenIndex == nil {
			return
		}
		h.handleSubmit(c, *msg.QuestionIndex, *msg.ChosenIndex, msg.TimeRemaining)
	case "request-advance":
		h.handleRequestAdvance(c)
	case "end-game":
		h.handleEnd(c)
	case "get-game-state":
		h.handleStateQuery(c)
	default:
		// ignore unknown types
	}
}

// sendLocked delivers to a single client, dropping the client entirely if its
// buffer is full. Assumes h.mu is held.
func (h *Hub) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		if h.clients[c] {
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

func (h *Hub) sendHostLocked(msg any) {
	if h.hostConnID == "" {
		return
	}
	for client := range h.clients {
		if client.connID == h.hostConnID {
			h.sendLocked(client, msg)
			return
		}
	}
}

func (h *Hub) handleConnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()
	h.clients[c] = true

	// Snapshot first, so the client can render before deciding to register.
	h.sendLocked(c, h.stateMessageLocked())
}

func (h *Hub) handleDisconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}

	if p, ok := h.players[c.connID]; ok {
		delete(h.players, c.connID)
		delete(h.characters, p.Character)

		h.broadcastLocked(PlayerUpdateMessage{
			Type:         "player-left",
			Player:       p.snapshot(),
			TotalPlayers: len(h.players),
		})
		logf(h.cfg, "GAME: Player %q left %s", p.Name, h.id)
	}

	// Host leaving clears the binding only; the room survives and a new
	// host-authenticate can rebind.
	if c.connID == h.hostConnID {
		h.hostConnID = ""
		logf(h.cfg, "GAME: Host left %s", h.id)
	}
}

func (h *Hub) handleAuth(c *Client, secret string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.adminSecret)) != 1 {
		h.sendLocked(c, HostAuthFailedMessage{
			Type:   "host-auth-failed",
			Reason: errBadSecret.Error(),
		})
		return
	}

	h.hostConnID = c.connID

	h.sendLocked(c, HostAuthenticatedMessage{
		Type:    "host-authenticated",
		RoomID:  h.id,
		JoinURL: c.joinURL,
	})
	logf(h.cfg, "GAME: Host authenticated for %s", h.id)
}

func (h *Hub) handleJoin(c *Client, name, table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if p, ok := h.players[c.connID]; ok {
		// Already registered on this connection; repeat the confirmation.
		h.sendLocked(c, RegistrationSuccessMessage{
			Type:           "registration-success",
			Player:         p.snapshot(),
			TotalQuestions: len(h.bank),
		})
		return
	}

	name = strings.TrimSpace(name)
	if name == "" {
		h.sendLocked(c, RegistrationFailedMessage{
			Type:   "registration-failed",
			Reason: errInvalidName.Error(),
		})
		return
	}
	if runes := []rune(name); len(runes) > h.cfg.nameLimit {
		name = string(runes[:h.cfg.nameLimit])
	}

	if h.state != stateWaiting && !h.cfg.allowLateJoin {
		h.sendLocked(c, RegistrationFailedMessage{
			Type:   "registration-failed",
			Reason: errGameStarted.Error(),
		})
		return
	}

	if len(h.players) >= h.cfg.maxPlayers {
		h.sendLocked(c, RegistrationFailedMessage{
			Type:   "registration-failed",
			Reason: errRoomFull.Error(),
		})
		return
	}

	for _, p := range h.players {
		if strings.EqualFold(p.Name, name) {
			h.sendLocked(c, RegistrationFailedMessage{
				Type:   "registration-failed",
				Reason: errNameTaken.Error(),
			})
			return
		}
	}

	character := pickCharacter(h.characters)
	h.characters[character] = true

	p := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Table:     strings.TrimSpace(table),
		Character: character,
		JoinedAt:  time.Now(),
		connID:    c.connID,
		answers:   make([]*Answer, len(h.bank)),
	}
	h.players[c.connID] = p

	h.sendLocked(c, RegistrationSuccessMessage{
		Type:           "registration-success",
		Player:         p.snapshot(),
		TotalQuestions: len(h.bank),
	})

	h.broadcastLocked(PlayerUpdateMessage{
		Type:         "player-joined",
		Player:       p.snapshot(),
		TotalPlayers: len(h.players),
	})
	h.sendHostLocked(PlayerUpdateMessage{
		Type:         "host-player-joined",
		Player:       p.snapshot(),
		TotalPlayers: len(h.players),
	})

	// Late joiners during an active game get the current question directly.
	if h.state == stateActive {
		h.sendLocked(c, h.questionMessageLocked("next-question"))
	}

	metricPlayersRegistered.Inc()
	logf(h.cfg, "GAME: Player %q joined %s", p.Name, h.id)
}

func (h *Hub) handleStart(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if c.connID != h.hostConnID || h.hostConnID == "" {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errUnauthorized.Error()})
		return
	}
	if h.state == stateActive {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errGameStarted.Error()})
		return
	}
	if len(h.players) == 0 {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errNoPlayers.Error()})
		return
	}

	for _, p := range h.players {
		p.Score = 0
		p.answers = make([]*Answer, len(h.bank))
	}
	h.answers = make([]map[string]*Answer, len(h.bank))

	h.state = stateActive
	h.current = 0
	h.questionStartedAt = time.Now()
	h.generation++

	h.broadcastLocked(h.questionMessageLocked("game-started"))
	h.sendHostLocked(h.hostQuestionMessageLocked("host-game-started"))

	go h.scheduleAdvance(h.generation, h.current, h.cfg.questionDuration+h.cfg.resultDuration)

	metricGamesStarted.Inc()
	logf(h.cfg, "GAME: Started %s with %d players", h.id, len(h.players))
}

func (h *Hub) handleSubmit(c *Client, questionIndex, choice int, timeRemaining float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	// Stale, duplicate, or out-of-band submissions are dropped without a
	// reply; they usually lose a race against the advance timer rather than
	// indicate a client bug.
	if h.state != stateActive {
		return
	}
	p, ok := h.players[c.connID]
	if !ok {
		return
	}
	if questionIndex != h.current {
		return
	}
	q := h.bank[questionIndex]
	if choice < 0 || choice >= len(q.Choices) {
		return
	}
	if p.answers[questionIndex] != nil {
		return
	}
	if h.answers[questionIndex] == nil {
		h.answers[questionIndex] = make(map[string]*Answer)
	}
	if _, dup := h.answers[questionIndex][c.connID]; dup {
		return
	}

	correct := choice == q.AnswerIndex
	points := award(h.cfg, correct, timeRemaining)

	ans := &Answer{
		PlayerID:      p.ID,
		QuestionIndex: questionIndex,
		Choice:        choice,
		Correct:       correct,
		TimeRemaining: timeRemaining,
		SubmittedAt:   time.Now(),
	}
	h.answers[questionIndex][c.connID] = ans
	p.answers[questionIndex] = ans
	p.Score += points

	h.sendLocked(c, AnswerResultMessage{
		Type:               "answer-result",
		Correct:            correct,
		CorrectChoiceIndex: q.AnswerIndex,
		NewScore:           p.Score,
	})
	h.sendHostLocked(h.statsMessageLocked(questionIndex))

	metricAnswersAccepted.Inc()

	if h.cfg.quorumAdvance && len(h.answers[questionIndex]) >= quorum(len(h.players)) {
		h.advanceLocked()
	}
}

// quorum returns how many answers trigger an early advance.
func quorum(playerCount int) int {
	return int(math.Ceil(math.Max(2, float64(playerCount)*0.5)))
}

func (h *Hub) handleRequestAdvance(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if c.connID != h.hostConnID || h.hostConnID == "" {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errUnauthorized.Error()})
		return
	}
	if h.state != stateActive {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errNotActive.Error()})
		return
	}

	h.advanceLocked()
}

func (h *Hub) handleEnd(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if c.connID != h.hostConnID || h.hostConnID == "" {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errUnauthorized.Error()})
		return
	}
	if h.state != stateActive {
		h.sendLocked(c, ErrorMessage{Type: "error", Message: errNotActive.Error()})
		return
	}

	h.finishLocked()
}

func (h *Hub) handleStateQuery(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()
	h.sendLocked(c, h.stateMessageLocked())
}

// scheduleAdvance waits for d and advances the question, unless the session
// was reset, ended, or already moved past the question it was scheduled for.
func (h *Hub) scheduleAdvance(generation, questionIndex int, d time.Duration) {
	time.Sleep(d)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateActive || generation != h.generation || questionIndex != h.current {
		return
	}

	h.advanceLocked()
}

// advanceLocked moves to the next question or finishes the game. Assumes
// h.mu is held and state is active.
func (h *Hub) advanceLocked() {
	h.current++

	if h.current >= len(h.bank) {
		h.finishLocked()
		return
	}

	h.questionStartedAt = time.Now()

	h.broadcastLocked(h.questionMessageLocked("next-question"))
	h.sendHostLocked(h.hostQuestionMessageLocked("host-next-question"))

	go h.scheduleAdvance(h.generation, h.current, h.cfg.questionDuration+h.cfg.resultDuration)
}

// finishLocked is the terminal transition: broadcast the leaderboard and
// invalidate any pending timers.
func (h *Hub) finishLocked() {
	h.state = stateFinished
	h.generation++

	h.broadcastLocked(GameEndedMessage{
		Type:        "game-ended",
		Leaderboard: buildLeaderboard(h.playerListLocked()),
	})
	logf(h.cfg, "GAME: Finished %s", h.id)
}

func (h *Hub) playerListLocked() []*Player {
	list := make([]*Player, 0, len(h.players))
	for _, p := range h.players {
		list = append(list, p)
	}
	return list
}

func (h *Hub) questionMessageLocked(msgType string) QuestionMessage {
	return QuestionMessage{
		Type:           msgType,
		QuestionIndex:  h.current,
		Question:       h.bank[h.current].view(),
		TimeLimit:      h.cfg.questionDuration.Seconds(),
		TotalQuestions: len(h.bank),
	}
}

func (h *Hub) hostQuestionMessageLocked(msgType string) HostQuestionMessage {
	return HostQuestionMessage{
		Type:           msgType,
		QuestionIndex:  h.current,
		Question:       h.bank[h.current],
		TimeLimit:      h.cfg.questionDuration.Seconds(),
		TotalQuestions: len(h.bank),
	}
}

func (h *Hub) statsMessageLocked(questionIndex int) AnswerStatsMessage {
	counts := make([]int, choicesPerQuestion)
	for _, a := range h.answers[questionIndex] {
		if a.Choice >= 0 && a.Choice < len(counts) {
			counts[a.Choice]++
		}
	}
	return AnswerStatsMessage{
		Type:            "host-answer-stats",
		QuestionIndex:   questionIndex,
		PerChoiceCounts: counts,
		AnsweredCount:   len(h.answers[questionIndex]),
		TotalPlayers:    len(h.players),
	}
}

func (h *Hub) stateMessageLocked() GameStateMessage {
	list := h.playerListLocked()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].JoinedAt.Before(list[j].JoinedAt)
	})

	players := make([]Player, 0, len(list))
	for _, p := range list {
		players = append(players, p.snapshot())
	}

	msg := GameStateMessage{
		Type:           "game-state",
		State:          string(h.state),
		QuestionIndex:  h.current,
		TotalQuestions: len(h.bank),
		TimeLimit:      h.cfg.questionDuration.Seconds(),
		Players:        players,
	}

	if h.state == stateActive {
		view := h.bank[h.current].view()
		msg.Question = &view

		remaining := h.cfg.questionDuration - time.Since(h.questionStartedAt)
		if remaining < 0 {
			remaining = 0
		}
		msg.TimeRemaining = remaining.Seconds()
	}

	if h.state == stateFinished {
		msg.Leaderboard = buildLeaderboard(list)
	}

	return msg
}

// closeAll disconnects all clients of this hub and stops its run loop (used
// by the reaper).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.done)

	// A swept room may still be mid-game; make sure any sleeping advance
	// timers find nothing to do when they wake.
	h.state = stateFinished
	h.generation++

	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.clients, c)
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// joinURL builds the participant-facing room URL from the incoming request,
// respecting TLS and X-Forwarded-Proto.
func joinURL(cfg *Config, r *http.Request, roomID string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host + cfg.prefix + "/quiz/" + roomID
}

// WebSocket handler that picks the hub based on :roomid. Unknown rooms are
// rejected; rooms only come into existence through host authentication.
func serveWSForManager(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		hub, ok := rm.Lookup(roomID)
		if !ok {
			http.Error(w, errRoomNotFound.Error(), http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "SERVE: Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			send:    make(chan any, 32),
			connID:  uuid.NewString(),
			joinURL: joinURL(cfg, r, roomID),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.inbound <- inboundMessage{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the room URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		url := joinURL(cfg, r, roomID)

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

type adminVerifyRequest struct {
	Secret string `json:"secret"`
}

type adminVerifyResponse struct {
	RoomID  string `json:"roomId"`
	JoinURL string `json:"joinUrl"`
}

// serveAdminVerify checks the shared secret over HTTP and returns a room
// identifier plus join URL, creating or reusing a room as needed.
func serveAdminVerify(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req adminVerifyRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		hub, err := rm.Authenticate(req.Secret)
		if err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(adminVerifyResponse{
			RoomID:  hub.id,
			JoinURL: joinURL(cfg, r, hub.id),
		})
	}
}

// registerQuizGame sets up routes so that:
//   - $path/:roomid          → HTML client
//   - $path/:roomid/ws       → WebSocket for that room
//   - $path/:roomid/qr       → PNG QR code for that room URL
//   - /admin/verify          → shared-secret check returning a room ID
func registerQuizGame(cfg *Config, path string, rm *RoomManager, mux *httprouter.Router) {
	mux.GET(cfg.prefix+path+"/:roomid", serveQuizPage(cfg))

	mux.GET(cfg.prefix+path+"/:roomid/ws", serveWSForManager(cfg, rm))

	mux.GET(cfg.prefix+path+"/:roomid/qr", qrHandler(cfg))

	mux.POST(cfg.prefix+"/admin/verify", serveAdminVerify(cfg, rm))
}
