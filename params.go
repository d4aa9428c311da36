package main

import (
	"math/rand"
	"strconv"
	"strings"
)

var words = []string{"Fizz", "Buzz", "Lorem", "Ipsum", ""}

// Params is the query of a single fizzbuzz request. Ranges deliberately step
// outside what the endpoint accepts (negative limit, empty words).
type Params struct {
	Limit int
	Str1  string
	Str2  string
	Int1  int
	Int2  int
}

func randomParams(rnd *rand.Rand) Params {
	return Params{
		Limit: randomInt(rnd, -1, 10),
		Str1:  randomWord(rnd),
		Str2:  randomWord(rnd),
		Int1:  randomInt(rnd, 3, 5),
		Int2:  randomInt(rnd, 4, 6),
	}
}

func randomWord(rnd *rand.Rand) string {
	return words[randomInt(rnd, 0, len(words)-1)]
}

// QueryString renders the params as limit, str1, str2, int1, int2.
// Values are sent raw, not escaped.
func (p Params) QueryString() string {
	pairs := []string{
		"limit=" + strconv.Itoa(p.Limit),
		"str1=" + p.Str1,
		"str2=" + p.Str2,
		"int1=" + strconv.Itoa(p.Int1),
		"int2=" + strconv.Itoa(p.Int2),
	}

	return strings.Join(pairs, "&")
}
