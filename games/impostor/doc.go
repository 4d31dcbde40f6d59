// Package impostor implements the rules of a pass-the-phone word game.
//
// How to play
//   - Everyone sits around one phone. The host picks a mode and the number of players.
//   - Each player types their name, then privately reveals their card and hands the phone on.
//   - Most players get the same word. A few "hallucinated" players get a related word and
//     do not know it. One impostor gets no word at all.
//   - Players take turns describing their word without saying it.
//   - In live mode the group talks it out and the host removes players by tapping them twice.
//     In app mode the phone is passed around again and everyone votes in secret.
//   - Ties at the elimination boundary go to a single runoff between the tied players.
//
// Winning
//   - The impostor wins when cornered one-on-one against anyone but a hallucinated player.
//   - Hallucinated players win when they make it to the final two.
//   - Everyone else wins once the impostor and every hallucinated player are out.
package impostor
