// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	WorldFileInvalidId Id = iota + 1
	ItemCatalogInvalidId
	RequirementSyntaxId
	UnresolvedReferenceId
	MacroCycleId
	DanglingExitId
	NameCollisionId
	WorldStructureId
	IncompleteRequirementsId
	ConfigLoadFailedId
	OutputWriteFailedId
)

type (
	// Id identifies a category of compile failure.
	Id int

	// MarkdownMsg is Markdown guidance text.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a guidance page shown for a category of failure.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	worldFileInvalidIssue = &Issue{
		id:    WorldFileInvalidId,
		title: "world file invalid",
		mdMsg: `
# A world file could not be read!

A file under the world directory is not valid YAML or does not have the
Region → Stage → Area shape.

## Things you can try:
- Check the reported line and column
- Keep ` + "`allowed_time_of_day`" + ` as the only property key at region and stage level
- Area definitions accept only: ` + "`allowed_time_of_day`, `can_sleep`, `locations`, `events`, `map_exits`, `logic_exits`, `macros`" + `

## Example:
~~~yaml
Faron:
  Sealed Grounds:
    Spiral:
      can_sleep: true
      locations:
        Chest: Item Slingshot
      map_exits:
        Faron Woods - Entry: "true"
~~~`,
	}

	itemCatalogInvalidIssue = &Issue{
		id:    ItemCatalogInvalidId,
		title: "item catalog invalid",
		mdMsg: `
# The item catalog is invalid!

Every item needs a unique ` + "`name`" + ` and a ` + "`kind`" + ` of ` + "`flag`" + ` or ` + "`counter`" + `.

~~~yaml
- name: Slingshot
  kind: flag
- name: Gratitude Crystal
  kind: counter
~~~`,
	}

	requirementSyntaxIssue = &Issue{
		id:    RequirementSyntaxId,
		title: "requirement syntax error",
		mdMsg: `
# A requirement could not be parsed!

## Grammar in short:
- ` + "`a b`" + `, ` + "`a & b`" + `, ` + "`a && b`" + `, ` + "`a and b`" + `: all of them
- ` + "`a | b`" + `, ` + "`a || b`" + `, ` + "`a or b`" + `: any of them
- ` + "`!a`" + `, ` + "`not a`" + `: negation; parentheses group
- ` + "`Item Bomb_Bag`" + `, ` + "`Item \"Gratitude Crystal\" 5`" + `: item checks
- ` + "`Area Plaza (night)`" + `, ` + "`Area \"Skyloft - Plaza\"`" + `: area checks with optional any/day/night
- ` + "`Event \"Open Bazaar\"`" + `: event checks
- any other name is an item, event, area or macro, looked up in that order`,
	}

	unresolvedReferenceIssue = &Issue{
		id:    UnresolvedReferenceId,
		title: "unresolved reference",
		mdMsg: `
# A requirement names something that does not exist!

## Things you can try:
- Check the spelling against the item catalog (underscores and spaces are interchangeable)
- Area names without a stage prefix resolve inside the current stage only
- Define missing macros in the global macro file or in the area's ` + "`macros`" + ` block
- Every referenced event must be granted by at least one area's ` + "`events`" + ` block`,
	}

	macroCycleIssue = &Issue{
		id:    MacroCycleId,
		title: "macro cycle",
		mdMsg: `
# Macros reference each other in a loop!

A macro body may use other macros, but never itself, directly or indirectly.
Break the loop by inlining the shared part in one of the macros.`,
	}

	danglingExitIssue = &Issue{
		id:    DanglingExitId,
		title: "dangling exit",
		mdMsg: `
# An exit points nowhere!

Map exits are written ` + "`<Stage> - <Area>`" + ` with an optional ` + "`(<disambiguation>)`" + `
suffix, and logic exits name an area of the same stage. The target must be
declared in some world file.`,
	}

	nameCollisionIssue = &Issue{
		id:    NameCollisionId,
		title: "name collision",
		mdMsg: `
# Two names map to the same identifier!

Generated identifiers drop apostrophes and punctuation and join words in
CamelCase, so ` + "`Beedle's Shop`" + ` and ` + "`Beedles Shop`" + ` collide. Rename one of them.`,
	}

	worldStructureIssue = &Issue{
		id:    WorldStructureId,
		title: "world structure",
		mdMsg: `
# The world hierarchy is inconsistent!

- Stage names must be unique across all regions, and area names unique within a stage
- An area with ` + "`can_sleep: true`" + ` must allow both day and night`,
	}

	incompleteRequirementsIssue = &Issue{
		id:    IncompleteRequirementsId,
		title: "incomplete requirements",
		mdMsg: `
# The compiled requirement table is inconsistent!

Every location, exit, event and logic exit must own exactly one compiled
requirement. This is an internal error; please report it with the input files.`,
	}

	configLoadFailedIssue = &Issue{
		id:    ConfigLoadFailedId,
		title: "config load failed",
		mdMsg: `
# The project configuration could not be loaded!

## Things you can try:
- Create a default file:
~~~
$ worldc config init
~~~
- Inspect the effective values:
~~~
$ worldc config show
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id:    OutputWriteFailedId,
		title: "output write failed",
		mdMsg: `
# Generated files could not be written!

Check that the output directory is writable. Nothing from a failed run should
be used: rerun ` + "`worldc build`" + ` after fixing the problem.`,
	}

	issues = map[Id]*Issue{
		worldFileInvalidIssue.Id():       worldFileInvalidIssue,
		itemCatalogInvalidIssue.Id():     itemCatalogInvalidIssue,
		requirementSyntaxIssue.Id():      requirementSyntaxIssue,
		unresolvedReferenceIssue.Id():    unresolvedReferenceIssue,
		macroCycleIssue.Id():             macroCycleIssue,
		danglingExitIssue.Id():           danglingExitIssue,
		nameCollisionIssue.Id():          nameCollisionIssue,
		worldStructureIssue.Id():         worldStructureIssue,
		incompleteRequirementsIssue.Id(): incompleteRequirementsIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		outputWriteFailedIssue.Id():      outputWriteFailedIssue,
	}
)

// Id returns the category id.
func (i *Issue) Id() Id {
	return i.id
}

// Title returns a short lower-case label for the category.
func (i *Issue) Title() string {
	return i.title
}

// MarkdownMsg returns the raw guidance text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the guidance for a terminal using the glamour style at stylePath
// (e.g. "dark", "light", "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			md += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(md, stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
