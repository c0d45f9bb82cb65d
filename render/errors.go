// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package render

import "errors"

var (
	// ErrNoListing means the text contains no bullet items at all.
	ErrNoListing = errors.New("generated text contains no listing")

	// ErrMissingCard means an expected card has no bullet.
	ErrMissingCard = errors.New("expected card missing from listing")

	// ErrUnexpectedCard means a bullet names a card that was not recommended.
	ErrUnexpectedCard = errors.New("listing contains a card that was not recommended")

	// ErrDuplicateCard means the same card has more than one bullet.
	ErrDuplicateCard = errors.New("card listed more than once")

	// ErrBadLink means a bullet's markdown link is absent or points at the
	// wrong URL.
	ErrBadLink = errors.New("bullet link malformed")

	// ErrShortDescription means a bullet lacks the required descriptive
	// sentences after its link.
	ErrShortDescription = errors.New("bullet description too short")
)
