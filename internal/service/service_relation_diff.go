// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/go-journal-keeper/models"

// BuildRelationPlan computes the insert and delete sets that bring the
// persisted relation rows of an entry to exactly the desired set. Keys are
// opaque; both inputs are deduplicated and the two output sets are disjoint.
// Keys present in both inputs appear in neither output.
func BuildRelationPlan(desired, current []string) models.RelationPlan {
	toInsert, toDelete := diffKeys(desired, current)
	return models.RelationPlan{ToInsert: toInsert, ToDelete: toDelete}
}

func diffKeys[K comparable](desired, current []K) (toInsert, toDelete []K) {
	desiredSet := make(map[K]struct{}, len(desired))
	for _, key := range desired {
		desiredSet[key] = struct{}{}
	}

	currentSet := make(map[K]struct{}, len(current))
	for _, key := range current {
		if _, dup := currentSet[key]; dup {
			continue
		}
		currentSet[key] = struct{}{}
		if _, keep := desiredSet[key]; !keep {
			toDelete = append(toDelete, key)
		}
	}

	seen := make(map[K]struct{}, len(desired))
	for _, key := range desired {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, exists := currentSet[key]; !exists {
			toInsert = append(toInsert, key)
		}
	}

	return toInsert, toDelete
}

func dedupeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	return result
}
