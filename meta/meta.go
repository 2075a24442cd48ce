// meta/meta.go
package meta

// BOARD_SIZE defines the default grid size.
const BOARD_SIZE = 3

// WIN_LENGTH defines the default run length needed to win.
const WIN_LENGTH = 3

// EMPTY_MARK defines the default mark of an empty cell.
const EMPTY_MARK = "."

// SEARCH_DEPTH defines the default maximum depth of iterative deepening.
const SEARCH_DEPTH = 6

// TIME_LIMIT defines the default search budget per move in milliseconds.
const TIME_LIMIT = 1000

// MAX_REJECTS defines how many illegal moves in a row end the game.
const MAX_REJECTS = 3

// GO_ROUTINES defines the number of games played at once in experiments.
const GO_ROUTINES = 8

// NUM_GAMES defines the default number of games per experiment matchup.
const NUM_GAMES = 20

// EXPERIMENTS_DIR defines where experiment records are written.
const EXPERIMENTS_DIR = "experiments"
