package mcpserver

// RubricContract describes the ten-point quality rubric and the note format
// it scores, for LLM consumers authoring or extracting notes.
const RubricContract = `# Vitalis Quality Rubric Contract

Every note is scored 0-10 across five components. A note passes at 7 or
above (configurable).

## Components

| Component    | Range | What earns points                                         |
|--------------|-------|-----------------------------------------------------------|
| why          | 0-3   | +1 purpose statement present, +1 it links to a configured goal, +1 it uses an action verb |
| metadata     | 0-2   | 3+ of the four fields below = 2; exactly 2 fields = 1     |
| taxonomy     | 0-2   | 2 = functional tags only, 1 = mixed, 0 = topic tags only  |
| connectivity | 0-2   | 2 = at least one upward AND one sideways link, 1 = either |
| originality  | 0-1   | +1 for original synthesis; encyclopedic facts score 0     |

## Note format

` + "```" + `markdown
---
title: Human-readable title        # REQUIRED
tags:                               # functional tags score best
  - input/article
  - project/vitalis
---

I am keeping this because it changes how I design retry logic.

Project: [[Project/Vitalis]]
Status: Seed
Type: Technical
For: Future Users

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes.
Use [[target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **Purpose statement.** Open the body with a first-person "I am keeping
   this because ..." sentence. Mention a goal and use an action verb
   ("improve", "build", "decide") for full marks.
2. **Metadata fields.** The four recognized fields are Project, Status
   (Seed/Sapling/Evergreen), Type (Logic/Technical/Reflection), and
   For (Self/Future Users/AI Agent). Each is one "Key: Value" line.
3. **Tags** are lowercase, kebab-case. Functional tags describe what the
   note DOES for you (input/, output/, project/); topic tags merely label
   subject matter and score lower. Five tags at most.
4. **Links.** Include at least one upward link (to a MOC or project hub)
   and one sideways link (to a peer note). Downward links to detail notes
   do not satisfy the minimum.
5. **Originality.** Write your own synthesis. Notes that open like an
   encyclopedia entry ("X is a Y that ...") with no personal reasoning
   score zero on originality.

## Consolidation

When an incoming note duplicates an existing one, do not create it fresh:
declare the merge target in frontmatter with ` + "`" + `consolidated_with: <title>` + "`" + `.
Evaluation penalizes both missed consolidations and wrong targets.
`
