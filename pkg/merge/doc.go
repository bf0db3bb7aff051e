/*
Package merge builds the Tutorial from its three independently edited
sources: the skeleton (ids and action metadata), the parsed lesson frame
(prose) and the commit map (hashes per position).

Each output field has exactly one owner, applied in table order onto a
freshly constructed record:

	level:    id, title, summary, content  <- lesson
	          setup metadata               <- skeleton
	          setup.commits                <- commit map ("<id>", legacy "L<id>")
	step:     id, content, hints, subtasks <- lesson
	          setup/solution metadata      <- skeleton
	          setup.commits                <- commit map ("<id>:T")
	          solution.commits             <- commit map ("<id>:S")
	tutorial: id, version, config          <- skeleton
	          summary                      <- lesson
	          config.setup.commits         <- commit map ("INIT")

Levels and steps follow lesson order and are matched to the skeleton by id.
A unit present on only one side is dropped with a reference warning. Inputs
are never modified and no output slice aliases an input.
*/
package merge
