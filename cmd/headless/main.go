// Command headless runs scripted episodes without a display and prints a
// per-episode and aggregate report. Useful for checking bot behaviour and
// reward balance after tuning.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"tanktrouble/internal/arena"
)

type episodeStats struct {
	index int
	seed  int64

	outcome     string
	ticks       int
	totalReward float64

	playerShots int
	botShots    int
	modeChanges int
	recomputes  int
	firstEngage int
	firstEvade  int
}

// policy picks the player action each tick from the live environment state.
type policy func(env *arena.Env, rng *rand.Rand) arena.Action

func main() {
	var episodes int
	var ticks int
	var seedBase int64
	var seedStep int64
	var policyName string
	var configPath string

	flag.IntVar(&episodes, "episodes", 10, "number of episodes to run")
	flag.IntVar(&ticks, "ticks", 0, "override max ticks per episode (0 = config value)")
	flag.Int64Var(&seedBase, "seed-base", 42, "seed for episode 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between episodes")
	flag.StringVar(&policyName, "policy", "seek", "player policy: noop, random, seek")
	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.Parse()

	if episodes <= 0 {
		fmt.Println("error: -episodes must be > 0")
		return
	}

	cfg := arena.DefaultConfig()
	if configPath != "" {
		loaded, err := arena.LoadConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if ticks > 0 {
		cfg.MaxEpisodeSteps = ticks
	}

	pol, ok := policies[policyName]
	if !ok {
		fmt.Printf("error: unknown policy %q (supported: noop, random, seek)\n", policyName)
		return
	}

	env, err := arena.NewEnv(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer env.Close()

	fmt.Printf("=== Headless Episode Report ===\n")
	fmt.Printf("policy=%s episodes=%d max_ticks=%d seed_base=%d seed_step=%d\n\n",
		policyName, episodes, cfg.MaxEpisodeSteps, seedBase, seedStep)

	all := make([]episodeStats, 0, episodes)
	for i := 0; i < episodes; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runEpisode(env, pol, i+1, seed)
		all = append(all, stats)
		printEpisode(stats)
	}

	printAggregate(all)
}

var policies = map[string]policy{
	"noop": func(_ *arena.Env, _ *rand.Rand) arena.Action {
		return arena.ActionNoOp
	},
	"random": func(_ *arena.Env, rng *rand.Rand) arena.Action {
		return arena.Action(rng.Intn(arena.NumActions))
	},
	// seek turns toward the bot, advances, and fires when roughly aligned.
	"seek": func(env *arena.Env, _ *rand.Rand) arena.Action {
		p, b := env.PlayerTank(), env.BotTank()
		err := arena.NormalizeAngle(arena.HeadingTo(p.Pos, b.Pos) - p.Heading)
		switch {
		case err > 0.35:
			return arena.ActionRotateCW
		case err < -0.35:
			return arena.ActionRotateCCW
		case p.Cooldown == 0:
			return arena.ActionFire
		default:
			return arena.ActionMoveForward
		}
	},
}

func runEpisode(env *arena.Env, pol policy, index int, seed int64) episodeStats {
	env.Reset(seed)
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- batch tooling

	total := 0.0
	ticks := 0
	outcome := "none"
	for {
		res, err := env.Step(pol(env, rng))
		if err != nil {
			log.Fatalf("episode %d: %v", index, err)
		}
		total += res.Reward
		ticks = res.Info.Tick
		if res.Terminated || res.Truncated {
			outcome = res.Info.Outcome
			break
		}
	}

	l := env.Log()
	playerShots := 0
	botShots := 0
	for _, e := range l.Filter("fire", "shot") {
		if e.Actor == arena.TankPlayer.String() {
			playerShots++
		} else {
			botShots++
		}
	}

	return episodeStats{
		index:       index,
		seed:        seed,
		outcome:     outcome,
		ticks:       ticks,
		totalReward: total,
		playerShots: playerShots,
		botShots:    botShots,
		modeChanges: l.Count("bot", "mode_change"),
		recomputes:  l.Count("path", "recompute"),
		firstEngage: firstModeTick(l, "engage"),
		firstEvade:  firstModeTick(l, "evade"),
	}
}

func firstModeTick(l *arena.EpisodeLog, mode string) int {
	for _, e := range l.Filter("bot", "mode_change") {
		if strings.HasSuffix(e.Value, mode) {
			return e.Tick
		}
	}
	return -1
}

func printEpisode(es episodeStats) {
	fmt.Printf("--- Episode %d (seed=%d) ---\n", es.index, es.seed)
	fmt.Printf("outcome=%s ticks=%d reward=%.3f\n", es.outcome, es.ticks, es.totalReward)
	fmt.Printf("shots: player=%d bot=%d\n", es.playerShots, es.botShots)
	fmt.Printf("bot: mode_changes=%d path_recomputes=%d first_engage=%d first_evade=%d\n\n",
		es.modeChanges, es.recomputes, es.firstEngage, es.firstEvade)
}

func printAggregate(all []episodeStats) {
	outcomes := map[string]int{}
	totalTicks := 0
	totalReward := 0.0
	totalPlayerShots := 0
	totalBotShots := 0
	totalModeChanges := 0
	engageTicks := make([]int, 0, len(all))

	for _, es := range all {
		outcomes[es.outcome]++
		totalTicks += es.ticks
		totalReward += es.totalReward
		totalPlayerShots += es.playerShots
		totalBotShots += es.botShots
		totalModeChanges += es.modeChanges
		if es.firstEngage >= 0 {
			engageTicks = append(engageTicks, es.firstEngage)
		}
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("episodes=%d\n", n)
	fmt.Printf("outcomes: win=%d loss=%d draw=%d truncated=%d\n",
		outcomes["win"], outcomes["loss"], outcomes["draw"], outcomes["truncated"])
	fmt.Printf("avg_ticks=%.1f avg_reward=%.3f\n", avg(totalTicks, n), totalReward/float64(n))
	fmt.Printf("avg_shots_per_episode: player=%.1f bot=%.1f\n",
		avg(totalPlayerShots, n), avg(totalBotShots, n))
	fmt.Printf("avg_mode_changes=%.1f first_engage_avg=%s\n",
		avg(totalModeChanges, n), avgTickString(engageTicks))
}

func avg(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
