package engine

// SeatWind computes a seat's wind index (0=East..3=North) from the dice
// roll and banker seat, generalizing the scorer's winner-only formula
// so the END payload can report every seat's wind, not just the
// winner's.
func SeatWind(seat int, dice [3]int, banker int) int {
	diceSum := dice[0] + dice[1] + dice[2]
	return mod4(3 + diceSum + banker - seat)
}

func (g *Game) allSeatWinds() [4]int {
	var out [4]int
	for s := 0; s < 4; s++ {
		out[s] = SeatWind(s, g.Dice, g.BankerSeat)
	}
	return out
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}
