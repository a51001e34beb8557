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

// Package starwars provides a schema over the characters of the original Star Wars trilogy. It is
// used by tests and by the command line tool.
package starwars

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/google/uuid"
)

// Clearance is the ambient value that grants access to the secret backstory of characters.
type Clearance struct {
	Level int
}

// secretClearanceLevel is the minimal level to read secret backstories.
const secretClearanceLevel = 3

var (
	schemaOnce sync.Once
	schema     *graphql.Schema
)

// Schema returns the Star Wars schema. It is built once and shared.
func Schema() *graphql.Schema {
	schemaOnce.Do(func() {
		schema = NewSchemaBuilder().MustBuild()
	})
	return schema
}

// NewSchemaBuilder returns a builder populated with the Star Wars types and operations, ready for
// further additions.
// NewSchemaBuilder returns a builder holding the Star Wars types so tests can extend the schema.
func NewSchemaBuilder() *graphql.SchemaBuilder {
	b := graphql.NewSchemaBuilder()

	b.Enum("Episode", "NEWHOPE", "EMPIRE", "JEDI").
		Description("One of the films in the Star Wars Trilogy")

	b.Scalar("UUID").
		Description("A universally unique identifier in its canonical textual form").
		Serialize(serializeUUID).
		Parse(parseUUID)

	character := b.Interface("Character").
		Description("A character in the Star Wars Trilogy").
		ResolveType(resolveCharacterType)
	character.Field("id", graphql.NonNull(graphql.Named("String"))).
		Description("The id of the character.")
	character.Field("name", graphql.NonNull(graphql.Named("String"))).
		Description("The name of the character.")
	character.Field("friends", graphql.ListOf(graphql.Named("Character"))).
		Description("The friends of the character, or an empty list if they have none.")
	character.Field("appearsIn", graphql.ListOf(graphql.Named("Episode"))).
		Description("Which movies they appear in.")
	character.Field("secretBackstory", graphql.Named("String")).
		Description("All secrets about their past.")

	human := b.Type("Human").
		Description("A humanoid creature in the Star Wars universe.").
		Implements("Character")
	addCharacterFields(human)
	human.Field("homePlanet", graphql.Named("String")).
		Description("The home planet of the human, or null if unknown.").
		Resolver(graphql.ResolveWith(func(h *Human) graphql.ResolvedValue {
			return optionalString(h.HomePlanet)
		}))

	droid := b.Type("Droid").
		Description("A mechanical creature in the Star Wars universe.").
		Implements("Character")
	addCharacterFields(droid)
	droid.Field("primaryFunction", graphql.Named("String")).
		Description("The primary function of the droid.").
		Resolver(graphql.ResolveWith(func(d *Droid) graphql.ResolvedValue {
			return optionalString(d.PrimaryFunction)
		}))

	b.Query("hero", graphql.Named("Character")).
		Description("The hero of the episode, or of the whole saga if no episode is given.").
		Argument("episode", graphql.Named("Episode")).
		Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
			episode := 0
			if member, ok := graphql.ArgumentAs[graphql.EnumMember](req, "episode"); ok {
				episode = episodeNumber(member)
			}
			return characterValue(hero(episode)), nil
		})

	b.Query("human", graphql.Named("Human")).
		Argument("id", graphql.NonNull(graphql.Named("String"))).
		Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
			id, _ := graphql.ArgumentAs[string](req, "id")
			if human := humanByID(id); human != nil {
				return graphql.Object(human), nil
			}
			return graphql.Null(), nil
		})

	b.Query("humanByIndex", graphql.Named("Human")).
		Argument("id", graphql.NonNull(graphql.Named("Int"))).
		Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
			index, _ := graphql.ArgumentAs[int64](req, "id")
			if index < 0 || index >= int64(len(humans)) {
				return graphql.Null(), fmt.Errorf("no human at index %d", index)
			}
			return graphql.Object(humans[index]), nil
		})

	b.Query("droid", graphql.Named("Droid")).
		Argument("id", graphql.NonNull(graphql.Named("String"))).
		Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
			id, _ := graphql.ArgumentAs[string](req, "id")
			if droid := droidByID(id); droid != nil {
				return graphql.Object(droid), nil
			}
			return graphql.Null(), nil
		})

	b.Query("characters", graphql.NonNull(graphql.ListOf(graphql.NonNull(graphql.Named("Character"))))).
		Description("Every character appearing in the episode.").
		Argument("episode", graphql.NonNull(graphql.Named("Episode"))).
		Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
			member, _ := graphql.ArgumentAs[graphql.EnumMember](req, "episode")
			return graphql.ListOfValues(appearances(episodeNumber(member)), characterValue), nil
		})

	b.Query("sameUUID", graphql.Named("UUID")).
		Description("Echoes the given identifier.").
		Argument("id", graphql.Named("UUID")).
		Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
			id, ok := graphql.ArgumentAs[uuid.UUID](req, "id")
			if !ok {
				return graphql.Null(), nil
			}
			return graphql.Scalar(id), nil
		})

	b.Subscription("appearances", graphql.NonNull(graphql.Named("Character"))).
		Description("Streams the characters appearing in the episode.").
		Argument("episode", graphql.NonNull(graphql.Named("Episode"))).
		Argument("intervalMs", graphql.Named("Int")).
		Resolver(subscribeAppearances)

	return b
}

// addCharacterFields adds the fields of the Character interface to a type implementing it.
func addCharacterFields(ob *graphql.ObjectBuilder) {
	ob.Field("id", graphql.NonNull(graphql.Named("String"))).
		Resolver(resolveCharacter(func(c *Character) graphql.ResolvedValue {
			return graphql.String(c.ID)
		}))
	ob.Field("name", graphql.NonNull(graphql.Named("String"))).
		Resolver(resolveCharacter(func(c *Character) graphql.ResolvedValue {
			return graphql.String(c.Name)
		}))
	ob.Field("friends", graphql.ListOf(graphql.Named("Character"))).
		Resolver(resolveFriends)
	ob.Field("appearsIn", graphql.ListOf(graphql.Named("Episode"))).
		Resolver(resolveCharacter(func(c *Character) graphql.ResolvedValue {
			return graphql.ListOfValues(c.AppearsIn, func(episode int) graphql.ResolvedValue {
				return graphql.Enum(episodeName(episode))
			})
		}))
	ob.Field("secretBackstory", graphql.Named("String")).
		AccessRule(func(_ interface{}, req *graphql.RequestContext) bool {
			clearance, ok := graphql.ContextValue[Clearance](req)
			return ok && clearance.Level >= secretClearanceLevel
		}).
		Resolver(resolveCharacter(func(c *Character) graphql.ResolvedValue {
			return optionalString(c.SecretBackstory)
		}))
}

// resolveCharacter adapts a function of the shared character data into a resolver accepting both
// humans and droids.
func resolveCharacter(f func(c *Character) graphql.ResolvedValue) graphql.Resolver {
	return func(_ context.Context, source interface{}, _ *graphql.RequestContext) (graphql.ResolvedValue, error) {
		switch source := source.(type) {
		case *Human:
			return f(&source.Character), nil
		case *Droid:
			return f(&source.Character), nil
		}
		return graphql.Null(), fmt.Errorf("expect a character but got %T", source)
	}
}

func resolveCharacterType(source interface{}) string {
	switch source.(type) {
	case *Human:
		return "Human"
	case *Droid:
		return "Droid"
	}
	return ""
}

func characterValue(character interface{}) graphql.ResolvedValue {
	if character == nil {
		return graphql.Null()
	}
	return graphql.Object(character)
}

func optionalString(s string) graphql.ResolvedValue {
	if s == "" {
		return graphql.Null()
	}
	return graphql.String(s)
}

var episodeNames = map[int]string{
	NewHope: "NEWHOPE",
	Empire:  "EMPIRE",
	Jedi:    "JEDI",
}

func episodeName(episode int) string {
	return episodeNames[episode]
}

// episodeNumber maps a member of the Episode enum to its film number. Members are declared in film
// order starting from A New Hope.
func episodeNumber(member graphql.EnumMember) int {
	return NewHope + member.Index
}

// subscribeAppearances sends the characters appearing in the episode one by one and then ends the
// stream.
func subscribeAppearances(ctx context.Context, req *graphql.RequestContext) (<-chan graphql.ResolvedValue, error) {
	member, _ := graphql.ArgumentAs[graphql.EnumMember](req, "episode")
	interval, _ := graphql.ArgumentAs[int64](req, "intervalMs")
	if interval < 0 {
		return nil, fmt.Errorf("intervalMs must not be negative but got %d", interval)
	}

	characters := appearances(episodeNumber(member))
	stream := make(chan graphql.ResolvedValue)
	go func() {
		defer close(stream)
		for i, character := range characters {
			if i > 0 && interval > 0 {
				select {
				case <-time.After(time.Duration(interval) * time.Millisecond):
				case <-ctx.Done():
					return
				}
			}
			select {
			case stream <- characterValue(character):
			case <-ctx.Done():
				return
			}
		}
	}()
	return stream, nil
}

//===----------------------------------------------------------------------------------------====//
// UUID scalar
//===----------------------------------------------------------------------------------------====//

func serializeUUID(value graphql.ResolvedValue) (graphql.ResolvedValue, error) {
	switch value.Kind() {
	case graphql.KindScalar:
		if id, ok := value.Source().(uuid.UUID); ok {
			return graphql.String(id.String()), nil
		}
	case graphql.KindString:
		id, err := uuid.Parse(value.StringValue())
		if err != nil {
			return graphql.Null(), fmt.Errorf("UUID cannot represent value: %s", value)
		}
		return graphql.String(id.String()), nil
	}
	return graphql.Null(), fmt.Errorf("UUID cannot represent value: %s", value)
}

func parseUUID(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("UUID cannot represent a non string value: %v", value)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("UUID cannot represent value: %q", s)
	}
	return id, nil
}
