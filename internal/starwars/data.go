/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package starwars

// Episode numbers of the original trilogy.
const (
	NewHope = 4
	Empire  = 5
	Jedi    = 6
)

// Character is the data shared by humans and droids.
type Character struct {
	ID              string
	Name            string
	Friends         []string
	AppearsIn       []int
	SecretBackstory string
}

// Human is a character of the Human type.
type Human struct {
	Character
	HomePlanet string
}

// Droid is a character of the Droid type.
type Droid struct {
	Character
	PrimaryFunction string
}

var (
	luke = &Human{
		Character: Character{
			ID:              "1000",
			Name:            "Luke Skywalker",
			Friends:         []string{"1002", "1003", "2000", "2001"},
			AppearsIn:       []int{NewHope, Empire, Jedi},
			SecretBackstory: "Luke's father is Darth Vader.",
		},
		HomePlanet: "Tatooine",
	}

	vader = &Human{
		Character: Character{
			ID:        "1001",
			Name:      "Darth Vader",
			Friends:   []string{"1004"},
			AppearsIn: []int{NewHope},
		},
		HomePlanet: "Tatooine",
	}

	han = &Human{
		Character: Character{
			ID:        "1002",
			Name:      "Han Solo",
			Friends:   []string{"1000", "1003", "2001"},
			AppearsIn: []int{NewHope, Empire, Jedi},
		},
	}

	leia = &Human{
		Character: Character{
			ID:        "1003",
			Name:      "Leia Organa",
			Friends:   []string{"1000", "1002", "2001"},
			AppearsIn: []int{NewHope, Empire, Jedi},
		},
		HomePlanet: "Alderaan",
	}

	tarkin = &Human{
		Character: Character{
			ID:        "1004",
			Name:      "Wilhuff Tarkin",
			Friends:   []string{"1001"},
			AppearsIn: []int{NewHope},
		},
	}

	threepio = &Droid{
		Character: Character{
			ID:        "2000",
			Name:      "C-3PO",
			Friends:   []string{"1000", "1002", "1003", "2001"},
			AppearsIn: []int{NewHope, Empire, Jedi},
		},
		PrimaryFunction: "Protocol",
	}

	artoo = &Droid{
		Character: Character{
			ID:        "2001",
			Name:      "R2-D2",
			Friends:   []string{"1000", "1002", "1003"},
			AppearsIn: []int{NewHope, Empire, Jedi},
		},
		PrimaryFunction: "Astromech",
	}

	humans = []*Human{luke, vader, han, leia, tarkin}
	droids = []*Droid{threepio, artoo}
)

// characterByID returns the human or droid with the id or nil.
func characterByID(id string) interface{} {
	if human := humanByID(id); human != nil {
		return human
	}
	if droid := droidByID(id); droid != nil {
		return droid
	}
	return nil
}

func humanByID(id string) *Human {
	for _, human := range humans {
		if human.ID == id {
			return human
		}
	}
	return nil
}

func droidByID(id string) *Droid {
	for _, droid := range droids {
		if droid.ID == id {
			return droid
		}
	}
	return nil
}

// hero returns the hero of an episode: Luke for The Empire Strikes Back and R2-D2 otherwise.
func hero(episode int) interface{} {
	if episode == Empire {
		return luke
	}
	return artoo
}

// appearances returns the characters appearing in the episode in id order.
func appearances(episode int) []interface{} {
	var characters []interface{}
	for _, human := range humans {
		if appearsIn(&human.Character, episode) {
			characters = append(characters, human)
		}
	}
	for _, droid := range droids {
		if appearsIn(&droid.Character, episode) {
			characters = append(characters, droid)
		}
	}
	return characters
}

func appearsIn(character *Character, episode int) bool {
	for _, e := range character.AppearsIn {
		if e == episode {
			return true
		}
	}
	return false
}
