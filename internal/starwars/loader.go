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

import (
	"context"
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/dataloader"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
)

// CharacterLoaderKey registers the loader of characters by id in a dataloader.Manager.
const CharacterLoaderKey = "starwars.characters"

// LoadCharacters is the BatchLoader of characters. Keys are character ids. An unknown id loads nil.
var LoadCharacters = dataloader.BatchLoadFunc(func(_ context.Context, tasks dataloader.TaskList) {
	for _, task := range tasks {
		id, ok := task.Key().(string)
		if !ok {
			task.SetError(fmt.Errorf("character id must be a string but got %T", task.Key()))
			continue
		}
		task.SetValue(characterByID(id))
	}
})

var characterLoaderInfo = &dataloader.RegisterInfo{
	Key: CharacterLoaderKey,
	Factory: dataloader.FactoryFunc(func() (*dataloader.DataLoader, error) {
		return dataloader.New(dataloader.Config{
			BatchLoader: LoadCharacters,
		})
	}),
}

// resolveFriends looks up the friends of a character. When the request carries a
// dataloader.Manager, the lookups of all friends lists resolved at the same time share batches.
func resolveFriends(ctx context.Context, source interface{}, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
	var character *Character
	switch source := source.(type) {
	case *Human:
		character = &source.Character
	case *Droid:
		character = &source.Character
	default:
		return graphql.Null(), fmt.Errorf("expect a character but got %T", source)
	}

	manager, ok := graphql.ContextValue[*dataloader.Manager](req)
	if !ok {
		return graphql.ListOfValues(character.Friends, func(id string) graphql.ResolvedValue {
			return characterValue(characterByID(id))
		}), nil
	}

	loader, err := manager.GetOrCreate(characterLoaderInfo)
	if err != nil {
		return graphql.Null(), err
	}

	keys := make([]dataloader.Key, len(character.Friends))
	for i, id := range character.Friends {
		keys[i] = id
	}

	friends := make([]graphql.ResolvedValue, len(keys))
	for i, result := range loader.LoadMany(ctx, keys...) {
		if result.Err != nil {
			return graphql.Null(), result.Err
		}
		friends[i] = characterValue(result.Value)
	}
	return graphql.List(friends...), nil
}
